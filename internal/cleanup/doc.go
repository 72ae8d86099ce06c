/*
MIT License

Copyright (c) 2025 mthm112

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package cleanup runs one complete cleanup tick against a named assistant.
//
// A tick is: evaluate the safety gates, and when they allow teardown either
// delete the assistant (live mode) or report what would happen (dry run),
// then render a human-readable report and estimated savings. The scheduling
// of ticks lives outside this repository; the external cron invokes the
// binary once per tick and the Runner here does the rest.
//
// Each tick gets a uuid run identifier that appears in logs, traces, and the
// report, so one scheduled invocation can be correlated end to end.
//
// Example usage:
//
//	runner, err := cleanup.NewRunner(engine, rp, assistants, estimator, cleanup.Options{
//		Window: window.String(),
//	})
//	if err != nil {
//		return err
//	}
//	res, err := runner.Run(ctx, cleanup.Request{Assistant: "tbsg-tender-tool"})
//	if err != nil {
//		return err
//	}
//	fmt.Print(res.Report)
package cleanup
