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

package tree

// Kind discriminates the closed set of node shapes.
type Kind uint8

//go:generate go tool stringer -type Kind -trimprefix Kind
const (
	KindInvalid Kind = iota

	// Declarations.
	KindCompilationUnit
	KindNamespace
	KindTypeDecl
	KindMethodDecl
	KindLocalFunction
	KindLambda
	KindParameterList
	KindParameter
	KindAttribute
	KindTypeRef

	// Statements.
	KindBlock
	KindExprStmt
	KindLocalDecl
	KindDeclarator
	KindReturn
	KindThrow
	KindBreak
	KindContinue
	KindGoto
	KindLabeled
	KindEmpty
	KindYieldReturn
	KindYieldBreak
	KindIf
	KindWhile
	KindDo
	KindFor
	KindForEach
	KindUsing
	KindTry
	KindCatch
	KindFinally
	KindSwitch
	KindSection
	KindCaseLabel

	// Expressions.
	KindAwait
	KindInvocation
	KindArgument
	KindMemberAccess
	KindIdentifier
	KindLiteral
	KindConversion
	KindObjectCreation
	KindBinary
	KindUnary
	KindAssignment
)

// NumKinds is the number of distinct [Kind] values, suitable for sizing dispatch tables.
const NumKinds = int(KindAssignment) + 1

// ParseKind returns the [Kind] named s.
func ParseKind(s string) (Kind, bool) {
	for k := range Kind(NumKinds) {
		if k.String() == s {
			return k, true
		}
	}

	return KindInvalid, false
}

// IsStatement reports whether nodes of this kind appear in statement position.
func (k Kind) IsStatement() bool {
	switch k {
	case KindBlock, KindExprStmt, KindLocalDecl, KindReturn, KindThrow, KindBreak, KindContinue,
		KindGoto, KindLabeled, KindEmpty, KindYieldReturn, KindYieldBreak, KindIf, KindWhile, KindDo,
		KindFor, KindForEach, KindUsing, KindTry, KindSwitch, KindLocalFunction:
		return true

	default:
		return false
	}
}

// IsFunction reports whether nodes of this kind form a function boundary.
func (k Kind) IsFunction() bool {
	switch k {
	case KindMethodDecl, KindLocalFunction, KindLambda:
		return true

	default:
		return false
	}
}

// IsTypeLevel reports whether nodes of this kind contain members rather than code.
func (k Kind) IsTypeLevel() bool {
	switch k {
	case KindCompilationUnit, KindNamespace, KindTypeDecl:
		return true

	default:
		return false
	}
}
