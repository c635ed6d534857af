/*
Package domain holds the core types shared by every layer of AgenDev Studio.

It has no dependencies on adapters or runtime code. The orchestration engine,
the stores and the presentation layers all speak in these types:

  - Message: one immutable artifact published to the shared log.
  - Workflow / Step: the static SOP the executor walks.
  - RunResult / Failure: the structured outcome of a run.
  - Memory / Lesson: the long-lived lesson store exposed to agents.
  - CommandResult: the outcome of an external process execution.
*/
package domain
