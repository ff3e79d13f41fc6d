/*
Package ports defines the driven ports (interfaces) for the pacer core.

These interfaces decouple the runner from external implementations, letting
the same driver work with in-memory or Redis-backed snapshot stores.

# Key Interfaces

  - StateStore: persists the latest run snapshot for pause/resume.
*/
package ports
