// Package pipeline provides a framework for executing run steps in sequence.
//
// The pipeline pattern is used to take one SBML file through its stages:
// loading, the error gate, version probing, feature classification, report
// formatting, writing the description file and recording the run. Each stage
// is implemented as a Step that receives the current model.Run and can
// modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long batch runs
//
// The pipeline supports both individual runs and batch processing with
// concurrency control using errgroup. A single run is always sequential.
package pipeline
