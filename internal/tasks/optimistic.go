package tasks

// Optimistic runs a mutation with optimistic display semantics: apply
// the new value to view state immediately, issue the remote call, and
// on failure restore the previous value and surface the error. The
// cache itself is only touched by the remote call's success path; the
// apply/revert pair manages view-local state.
func (o *Ops) Optimistic(apply, revert func(), call func() error) error {
	apply()
	if err := call(); err != nil {
		revert()
		o.log.Error("optimistic mutation rolled back", "err", err)
		o.notify.Error(err.Error())
		return err
	}
	return nil
}
