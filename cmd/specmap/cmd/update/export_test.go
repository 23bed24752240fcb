package update

import "github.com/agentstation/specmap/pkg/sync"

func applyOptions(opts []sync.Option) *sync.Options {
	return sync.New(opts...)
}
