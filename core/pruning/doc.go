package pruning

// Package pruning holds the filters that cut the scheduler's search tree.
//
// Bound, rate capping and deduplication are conservative: they never drop a
// state that could beat the best score found so far. The greedy terminal
// commit is different. It assumes that building a terminal producer whenever
// possible is optimal, which holds for economies where the terminal resource
// is never spent and dominates scoring but is not a general rule. It sits
// behind the Commit interface so it can be switched off.
