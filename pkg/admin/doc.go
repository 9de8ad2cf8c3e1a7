// Package admin serves operational endpoints next to a hosted function:
// liveness, readiness and Prometheus metrics. The routes live on a separate
// listener so the function's own listener keeps answering every path itself.
//
//	adm := admin.New(
//		admin.WithAddr(":9090"),
//		admin.WithGatherer(m.Registry()),
//		admin.WithReadiness(admin.RunningCheck(srv)),
//	)
//	if err := adm.Start(); err != nil {
//		return err
//	}
//	defer adm.Stop()
package admin
