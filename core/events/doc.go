// Package events defines the evaluation events emitted on the event bus.
//
// Available event types:
//   - InstanceStarted: a worker picked up an economy
//   - InstanceFinished: the search of one economy completed or ran out of budget
//   - EvaluationFinished: every selected economy was searched and aggregated
package events
