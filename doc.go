/*
Package agendev runs a fixed sequence of agents over a shared message log.

Each step of a workflow names an agent and a validator. The agent observes the
messages on the topics it subscribes to, publishes one artifact, and the
validator decides whether the run advances, retries the step, or aborts.

# Usage

	eng, err := agendev.New(
		agendev.WithStandardAgents(agents.WithWorkspace("out")),
		agendev.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.Check(); err != nil {
		log.Fatal(err)
	}

	res := eng.Run(ctx, "A tool to organise photos")
	if !res.Success {
		log.Printf("failed at %s: %v", res.Failure.Step, res.Failure)
	}

The log of a run is append-only: rejected attempts stay visible to later
attempts and to the caller. Configuration mistakes (a step naming an agent or
validator that does not exist) abort the run immediately with zero attempts;
agent errors and panics consume one attempt each.
*/
package agendev
