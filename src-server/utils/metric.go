package utils

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	FeedRefresh   chan float64
	IcalServe     chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		FeedRefresh:   make(chan float64),
		IcalServe:     make(chan float64),
	}
}
