package domain

import "fmt"

type Pipeline string

func (p Pipeline) String() string {
	return string(p)
}

const (
	PipelineBigBasket Pipeline = "bigbasket" // Product catalog
	PipelineGrab      Pipeline = "grab"      // Restaurant locations
)

var Pipelines = []Pipeline{
	PipelineBigBasket,
	PipelineGrab,
}

func (p Pipeline) GetPipelineName() string {
	switch p {
	case PipelineBigBasket:
		return "BigBasket products"
	case PipelineGrab:
		return "Grab restaurants"
	default:
		return "Unknown"
	}
}

func ParsePipeline(name string) (Pipeline, error) {
	for _, pipeline := range Pipelines {
		if string(pipeline) == name {
			return pipeline, nil
		}
	}
	return "", fmt.Errorf("unknown pipeline %q, expected one of %v", name, Pipelines)
}
