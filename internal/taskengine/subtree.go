package taskengine

import (
	"context"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
)

// subtree collects rootID and all its non-archived descendants by
// depth-first walk: append the node, then push its children (ordered by
// created_at ascending) onto a stack. A revisit of an already-visited id
// means a corrupted cycle slipped past the reparent-time checks.
//
// The returned slice is in discovery (pre-order) order: parents appear
// before their descendants. Callers that need children-before-parents
// (hard delete) must reverse it themselves.
func subtree(ctx context.Context, tx store.Transaction, rootID string) ([]string, error) {
	visited := make(map[string]bool)
	var result []string
	stack := []string{rootID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[id] {
			return nil, model.InvalidState("corrupted task graph: cycle detected at %s", id)
		}
		visited[id] = true
		result = append(result, id)

		children, err := tx.NonArchivedChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		// Push in reverse so children are discovered in created_at
		// ascending order despite the stack's LIFO pop order.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i].ID)
		}
	}
	return result, nil
}

// reversed returns a new slice with ids in reverse order, so hard delete
// removes children before parents.
func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

// ancestorChain walks parent_id references upward from id, returning every
// ancestor id encountered. Used by reparent_task to detect a would-be
// cycle: reparent_task walks up from the new parent, and if the task
// being moved appears in the chain, parenting it there would close a loop.
func ancestorChain(ctx context.Context, getParent func(context.Context, string) (*model.Task, error), id string) ([]string, error) {
	var chain []string
	seen := map[string]bool{id: true}
	cur := id
	for {
		t, err := getParent(ctx, cur)
		if err != nil {
			return nil, err
		}
		if t == nil || t.ParentID == nil {
			return chain, nil
		}
		next := *t.ParentID
		if seen[next] {
			return nil, model.InvalidState("corrupted task graph: cycle detected at %s", next)
		}
		seen[next] = true
		chain = append(chain, next)
		cur = next
	}
}
