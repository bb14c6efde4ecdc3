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

package configureawait

import "fillmore-labs.com/awaitguard/internal/tree"

// Well-known types, by definition name.
const (
	ConfiguredTaskAwaitable             = "System.Runtime.CompilerServices.ConfiguredTaskAwaitable"
	ConfiguredTaskAwaitableOfT          = "System.Runtime.CompilerServices.ConfiguredTaskAwaitable`1"
	ConfiguredValueTaskAwaitable        = "System.Runtime.CompilerServices.ConfiguredValueTaskAwaitable"
	ConfiguredValueTaskAwaitableOfT     = "System.Runtime.CompilerServices.ConfiguredValueTaskAwaitable`1"
	ConfiguredAsyncDisposable           = "System.Runtime.CompilerServices.ConfiguredAsyncDisposable"
	ConfiguredCancelableAsyncEnumerable = "System.Runtime.CompilerServices.ConfiguredCancelableAsyncEnumerable`1"
	AsyncEnumerable                     = "System.Collections.Generic.IAsyncEnumerable`1"
)

// Base classes of types that run on a thread with a synchronization context,
// or where configuring it makes no difference.
var exemptBases = [...]string{
	"System.Windows.Threading.DispatcherObject", // WPF
	"System.Windows.Forms.Control",              // WinForms
	"System.Web.UI.WebControls.WebControl",      // ASP.NET Web Forms
	"Microsoft.AspNetCore.Mvc.ControllerBase",   // ASP.NET Core
}

// Interfaces of UI, request handling and component types.
var exemptInterfaces = [...]string{
	"System.Windows.Input.ICommand",
	"Microsoft.AspNetCore.Mvc.Razor.IRazorPage",
	"Microsoft.AspNetCore.Razor.TagHelpers.ITagHelper",
	"Microsoft.AspNetCore.Razor.TagHelpers.ITagHelperComponent",
	"Microsoft.AspNetCore.Mvc.Filters.IFilterMetadata",
	"Microsoft.AspNetCore.Components.IComponent", // Blazor has a synchronization context
}

// Attributes marking unit test methods in xUnit, NUnit and MSTest.
var testAttributes = [...]string{
	"Xunit.FactAttribute",
	"Xunit.TheoryAttribute",
	"NUnit.Framework.TestAttribute",
	"NUnit.Framework.TestCaseAttribute",
	"NUnit.Framework.TestCaseSourceAttribute",
	"NUnit.Framework.TheoryAttribute",
	"Microsoft.VisualStudio.TestTools.UnitTesting.TestMethodAttribute",
	"Microsoft.VisualStudio.TestTools.UnitTesting.DataTestMethodAttribute",
}

// exempt reports whether the point is in a type or method where the
// synchronization context matters or configuring it is pointless.
func (a *analysis) exempt(point *tree.Cursor) bool {
	if t := point.EnclosingType(); t != nil {
		name := t.Node().Symbol()

		for _, base := range exemptBases {
			if a.symbols.InheritsFrom(name, base) {
				return true
			}
		}

		for _, iface := range exemptInterfaces {
			if a.symbols.Implements(name, iface) {
				return true
			}
		}
	}

	if fn := point.EnclosingFunction(); fn != nil {
		method := a.symbols.Resolve(fn.Node().Symbol())
		for _, attr := range testAttributes {
			if a.symbols.HasAttribute(method, attr) {
				return true
			}
		}
	}

	return false
}
