// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package analyzer implements the awaitguard static analysis of C# syntax trees.
//
// # Overview
//
// AwaitGuard consumes compilation units annotated with semantic facts and a
// symbol table, runs a set of rules over them and offers structural fixes.
//
// The main rule flags suspension points (await expressions, asynchronous
// foreach loops and asynchronous using statements) that resume on the captured
// synchronization context although the surrounding code does not need it.
//
// # Example
//
// Before:
//
//	public async Task SaveAsync(Stream stream)
//	{
//	    await stream.FlushAsync();
//	}
//
// After applying the suggested fix:
//
//	public async Task SaveAsync(Stream stream)
//	{
//	    await stream.FlushAsync().ConfigureAwait(false);
//	}
//
// # Rules
//
//   - AG0001 configure-await: suspension points without ConfigureAwait(false)
//   - AG0002 validate-arguments: argument validation deferred by async or iterator methods
//   - AG0003 declare-types-in-namespaces: types declared in the global namespace
//   - AG0004 sequence-number-constant: non-constant render tree sequence numbers
//
// Types deriving from UI or request handling base classes and unit test methods
// are exempt from AG0001 unless the reporting mode is "always".
package analyzer
