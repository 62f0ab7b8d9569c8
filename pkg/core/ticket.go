package core

// TraceTicket is the recursion and bailout state shared by every ray
// descended from one top-level ray
type TraceTicket struct {
	TraceLevel           int
	MaxAllowedTraceLevel int
	MaxFoundTraceLevel   int
	ADCBailout           float64

	// AlphaBackground makes missed rays report transparent background
	AlphaBackground bool

	// RadiosityImportanceQueried is negative until a radiosity sample
	// asks for the importance of the first object hit
	RadiosityImportanceQueried float64
	RadiosityImportanceFound   float64
	RadiosityQuality           float64

	SubsurfaceRecursionDepth int
}

// NewTraceTicket creates a ticket for one top-level ray
func NewTraceTicket(maxTraceLevel int, adcBailout float64) *TraceTicket {
	return &TraceTicket{
		MaxAllowedTraceLevel:       maxTraceLevel,
		ADCBailout:                 adcBailout,
		RadiosityImportanceQueried: -1,
		RadiosityImportanceFound:   -1,
		RadiosityQuality:           1,
	}
}

// Reset prepares the ticket for the next top-level ray, keeping its limits
func (t *TraceTicket) Reset() {
	t.TraceLevel = 0
	t.MaxFoundTraceLevel = 0
	t.RadiosityImportanceQueried = -1
	t.RadiosityImportanceFound = -1
	t.SubsurfaceRecursionDepth = 0
}
