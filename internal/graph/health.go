package graph

import "math"

// HealthBreakdown shows the sub-scores of the health formula
type HealthBreakdown struct {
	Connectivity float64 `json:"connectivity"`
	Components   float64 `json:"components"`
	Fragility    float64 `json:"fragility"`
}

// AnalysisReport is the full analysis result
type AnalysisReport struct {
	HealthScore     float64         `json:"health_score"`
	HealthBreakdown HealthBreakdown `json:"health_breakdown"`
	Topology        *TopologyReport `json:"topology"`
	Bridges         *BridgeReport   `json:"bridges"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold int
	TopN         int
}

// DefaultConfig returns the defaults used by the analyze command
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold: 10,
		TopN:         10,
	}
}

// Analyze runs all analyses and computes a composite health score in [0, 1]
func Analyze(snap *GraphSnapshot, config *AnalyzerConfig) *AnalysisReport {
	if config == nil {
		config = DefaultConfig()
	}
	topology := ComputeTopology(snap, config.HubThreshold, config.TopN)
	bridges := ComputeBridges(snap)

	total := float64(topology.TotalNodes)

	var connectivity, components, fragility float64
	if total > 0 {
		connectivity = clamp(1.0-math.Min(float64(topology.OrphanCount)/total, 0.2)*5.0, 0, 1)
		fragility = clamp(1.0-math.Min(float64(bridges.APCount)/total, 0.25)*4.0, 0, 1)
	}
	if topology.NumComponents > 0 {
		components = clamp(1.0/float64(topology.NumComponents), 0, 1)
	}

	healthScore := 0.40*connectivity + 0.35*components + 0.25*fragility

	return &AnalysisReport{
		HealthScore: healthScore,
		HealthBreakdown: HealthBreakdown{
			Connectivity: connectivity,
			Components:   components,
			Fragility:    fragility,
		},
		Topology: topology,
		Bridges:  bridges,
	}
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
