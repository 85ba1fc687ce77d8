// Package workload provides the in-memory workload registry.
package workload

import (
	"github.com/viant/memsched/model/workload"
	"github.com/viant/memsched/service/dao"
	"github.com/viant/memsched/service/dao/criteria"
	"github.com/viant/memsched/service/dao/store"
)

// Service stores workloads keyed by identifier, listed in identifier order
type Service = store.MemoryStore[int, workload.Workload]

var _ dao.Service[int, workload.Workload] = (*Service)(nil)

// New creates a registry
func New() *Service {
	return store.NewMemoryStore[int, workload.Workload](func(w *workload.Workload) int { return w.ID }).
		WithFilter(func(w *workload.Workload, parameters []*dao.Parameter) bool {
			state := w.GetState()
			return criteria.FilterByState(string(state), parameters) &&
				criteria.FilterByTerminal(state.IsTerminal(), parameters)
		}).
		WithOrder(func(a, b *workload.Workload) bool { return a.ID < b.ID })
}
