// Package triage is the decision core of opsdeck. The Orchestrator walks an
// operator-submitted event through the five-question decision tree, writes the
// routing outcome back to the event, appends an immutable record to its log,
// and spawns the matching alert.
package triage
