/*
Package agent provides the building blocks for implementing ports.Agent.

Role carries the identity, subscription set and observed context every agent
needs. Concrete agents embed *Role and add an Act method:

	type Reviewer struct {
		*agent.Role
	}

	func (r *Reviewer) Act(ctx context.Context, log ports.Log) (string, error) {
		observed := r.Observe(log)
		content := summarise(observed)
		r.Publish(log, content)
		return content, nil
	}

Func adapts a plain compute function when no extra state is needed.
*/
package agent
