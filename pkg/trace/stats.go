package trace

// Stats counts the work one engine has done
type Stats struct {
	Rays                  uint64 // Rays passed to TraceRay
	ADCSaves              uint64 // Rays dropped because their weight fell under the bailout
	ReflectedRays         uint64 // Mirror rays spawned
	RefractedRays         uint64 // Rays bent through an interface
	TransmittedRays       uint64 // Rays continued unbent through an interface
	InternalReflectedRays uint64 // Refractions turned into reflections
	ShadowRayTests        uint64 // Occluder searches along shadow rays
	ShadowRaysSucceeded   uint64 // Occluders found
	ShadowCacheHits       uint64 // Shadow rays resolved by the cached occluder
	GathersPerformed      uint64 // Photon gathers
	SubsurfaceSamples     uint64 // Diffuse subsurface sample points
	SingleScatterSamples  uint64 // Single scattering events sampled
	MaxTraceLevelFound    int    // Deepest trace level any ray reached
}

// Add accumulates o into s
func (s *Stats) Add(o Stats) {
	s.Rays += o.Rays
	s.ADCSaves += o.ADCSaves
	s.ReflectedRays += o.ReflectedRays
	s.RefractedRays += o.RefractedRays
	s.TransmittedRays += o.TransmittedRays
	s.InternalReflectedRays += o.InternalReflectedRays
	s.ShadowRayTests += o.ShadowRayTests
	s.ShadowRaysSucceeded += o.ShadowRaysSucceeded
	s.ShadowCacheHits += o.ShadowCacheHits
	s.GathersPerformed += o.GathersPerformed
	s.SubsurfaceSamples += o.SubsurfaceSamples
	s.SingleScatterSamples += o.SingleScatterSamples
	if o.MaxTraceLevelFound > s.MaxTraceLevelFound {
		s.MaxTraceLevelFound = o.MaxTraceLevelFound
	}
}
