/*
Package ports defines the driven ports (interfaces) of the AgenDev Studio engine.

These interfaces decouple the orchestration core from concrete agents, storage
backends and process execution.

# Key Interfaces

  - Log: read/append access to the shared message log.
  - Agent: the subscribe/observe/act capability every actor implements.
  - MemoryReader / MemoryStore: the long-lived lesson store.
  - RunStore: persistence for finished run results.
  - CommandExecutor: runs external commands on behalf of concrete agents.
*/
package ports
