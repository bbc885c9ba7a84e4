package integrator

const passMediumTransitions = "Handle medium transitions"

// HandleMediumTransitions moves rays that crossed a material-less boundary
// into the next depth's ray queue with their state unchanged. The
// intersection stage cannot write that queue itself while it is reading
// the current one.
func (in *Integrator) HandleMediumTransitions(depth int) error {
	next := in.NextRayQueue(depth)
	return drain(in, passMediumTransitions, depth, in.mediumTransitionQueue, func(mt MediumTransitionWorkItem, _ int) {
		next.PushIndirect(mt.Ray, mt.Medium, mt.PiPrev, mt.NPrev, mt.NsPrev, mt.Beta, mt.PdfUni, mt.PdfNEE,
			mt.Lambda, mt.EtaScale, mt.IsSpecularBounce, mt.AnyNonSpecularBounces, mt.PixelIndex)
	})
}
