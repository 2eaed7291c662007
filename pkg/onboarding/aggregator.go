package onboarding

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/go-drift/onboarding/pkg/platform"
)

// Oracles maps each permission kind to its platform adapter. The sentinel
// KindCompleted never has an entry; it always counts as granted and
// determined.
type Oracles map[Kind]platform.Permission

// Aggregator derives install-wide booleans from the per-kind permission
// states. All queries are read-only and never fail: a kind whose oracle is
// missing or cannot answer counts as not determined and not granted.
type Aggregator struct {
	oracles Oracles
}

// NewAggregator returns an aggregator over the given oracles.
func NewAggregator(oracles Oracles) *Aggregator {
	return &Aggregator{oracles: oracles}
}

// IsFreshInstall reports whether any permission has never been asked. A
// single not-determined kind marks the whole install as fresh, regardless of
// the others' states.
func (a *Aggregator) IsFreshInstall(ctx context.Context) bool {
	// A kind with no oracle has never been asked, so it reads as fresh.
	results := a.fanOut(ctx, true, func(ctx context.Context, p platform.Permission) bool {
		return !p.IsDetermined(ctx)
	})
	for _, notDetermined := range results {
		if notDetermined {
			return true
		}
	}
	return false
}

// IsAllPermissionsAvailable reports whether every permission counts as
// granted per its kind's rule.
func (a *Aggregator) IsAllPermissionsAvailable(ctx context.Context) bool {
	results := a.fanOut(ctx, false, func(ctx context.Context, p platform.Permission) bool {
		return p.IsGranted(ctx)
	})
	for _, granted := range results {
		if !granted {
			return false
		}
	}
	return true
}

// CheckPermissionAvailable reports whether one kind counts as granted. The
// sentinel always does.
func (a *Aggregator) CheckPermissionAvailable(ctx context.Context, kind Kind) bool {
	if kind.IsSentinel() {
		return true
	}
	oracle, ok := a.oracles[kind]
	if !ok {
		return false
	}
	return oracle.IsGranted(ctx)
}

// fanOut evaluates the predicate for every non-sentinel kind concurrently.
// A kind without an oracle yields the missing value. Result order matches
// Kinds(), though the reductions over it are order-independent.
func (a *Aggregator) fanOut(ctx context.Context, missing bool, predicate func(context.Context, platform.Permission) bool) []bool {
	kinds := Kinds()
	results := make([]bool, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		oracle, ok := a.oracles[kind]
		if !ok {
			results[i] = missing
			continue
		}
		i, oracle := i, oracle
		g.Go(func() error {
			results[i] = predicate(ctx, oracle)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
