package entity

// Projeções read-only para dashboards.

type StageStats struct {
	Stage            Stage   `json:"stage"`
	Count            int64   `json:"count"`
	AvgTouchpoints   float64 `json:"avg_touchpoints"`
	AvgLifetimeValue float64 `json:"avg_ltv"`
}

type ChannelStats struct {
	Channel          string `json:"channel"`
	InteractionCount int64  `json:"interaction_count"`
	UniqueCustomers  int64  `json:"unique_customers"`
}
