package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/ankitr/N-lang/modules/math"
	_ "github.com/ankitr/N-lang/modules/str"
)

func compileJS(t *testing.T, src string) string {
	t.Helper()
	result, err := Compile(src, Options{})
	require.NoError(t, err)
	return result.JS
}

func TestGenProgramShape(t *testing.T) {
	js := compileJS(t, "print 1")
	assert.Contains(t, js, `"use strict";`)
	assert.Contains(t, js, "var __n = {")
	assert.Contains(t, js, "print(__n.display(1));")
	assert.Contains(t, js, "})();\n")
}

func TestGenDeclare(t *testing.T) {
	js := compileJS(t, "var x = 1 + 2")
	assert.Contains(t, js, "let x = (1 + 2);")
}

func TestGenCustomPrintName(t *testing.T) {
	result, err := Compile("print 1", Options{Print: "emitLine"})
	require.NoError(t, err)
	assert.Contains(t, result.JS, "emitLine(__n.display(1));")
	assert.NotContains(t, result.JS, "print(__n.display")
}

func TestGenOperators(t *testing.T) {
	js := compileJS(t, "print 2 ^ 3 + 7 // 2 - 7 % 3")
	assert.Contains(t, js, "__n.pow(2, 3)")
	assert.Contains(t, js, "__n.floordiv(7, 2)")
	assert.Contains(t, js, "__n.mod(7, 3)")
}

func TestGenFunction(t *testing.T) {
	js := compileJS(t, "var double = [x:int] -> int { return x * 2 }")
	assert.Contains(t, js, "let double = (x) => {")
	assert.Contains(t, js, "return (x * 2);")
}

func TestGenFor(t *testing.T) {
	js := compileJS(t, "for i:int 3 { print i }")
	assert.Contains(t, js, "for (let __n_c0 = __n.count(3), i = 0; i < __n_c0; i++) {")
}

func TestGenIfElse(t *testing.T) {
	js := compileJS(t, "if true { print 1 } else { print 2 }")
	assert.Contains(t, js, "if (__n.bool(true)) {")
	assert.Contains(t, js, "} else {")
}

func TestGenCompareChain(t *testing.T) {
	js := compileJS(t, "print 1 < 2 <= 3")
	assert.Contains(t, js, "(() => { let __n_l = 1; let __n_r;")
	assert.Contains(t, js, "if (!(__n_l < __n_r)) { return false; }")
	assert.Contains(t, js, "if (!(__n_l <= __n_r)) { return false; }")
	assert.Contains(t, js, "return true; })()")
}

func TestGenEqualityQuirks(t *testing.T) {
	js := compileJS(t, "print 1 = 1\nprint 1 /= 2")
	assert.Contains(t, js, "__n_l === __n_r")
	assert.Contains(t, js, "__n_l !== __n_r")
}

func TestGenCompareChainTemporariesAvoidSourceNames(t *testing.T) {
	// A source variable named like a chain temporary must not shadow
	// the temporary inside the IIFE.
	js := compileJS(t, "var __l = 5\nprint __l == 5")
	assert.Contains(t, js, "let __l = 5;")
	assert.Contains(t, js, "(() => { let __n_l = __l;")
}

func TestGenImportEmbedsRuntime(t *testing.T) {
	js := compileJS(t, "import str\nprint <str.intInBase10 42>")
	assert.Contains(t, js, "__n_modules.str = {")
	assert.Contains(t, js, `__n.require("str");`)
	assert.Contains(t, js, `__n.dispatch("str", "intInBase10", [42])`)
}

func TestGenImportUnregisteredModule(t *testing.T) {
	// Unknown modules still compile; the require fails at run time
	// unless the host provides them.
	js := compileJS(t, "import custom\nprint <custom.thing 1>")
	assert.Contains(t, js, `__n.require("custom");`)
	assert.Contains(t, js, `__n.dispatch("custom", "thing", [1])`)
}

func TestGenUnknownCommandFails(t *testing.T) {
	_, err := Compile("import str\nprint <str.nope 1>", Options{})
	var generr *CodeGenError
	require.ErrorAs(t, err, &generr)
	assert.Contains(t, generr.Error(), "nope")
}

func TestGenCommandArityChecked(t *testing.T) {
	_, err := Compile("import math\nprint <math.max 1>", Options{})
	var generr *CodeGenError
	require.ErrorAs(t, err, &generr)
	assert.Contains(t, generr.Error(), "expects 2 argument(s)")
}

func TestGenReservedWordMangled(t *testing.T) {
	js := compileJS(t, "var new = 1\nprint new")
	assert.Contains(t, js, "let new_ = 1;")
	assert.Contains(t, js, "print(__n.display(new_));")
}

func TestGenRuntimePrefixMangled(t *testing.T) {
	js := compileJS(t, "var __n_x = 1\nprint __n_x")
	assert.Contains(t, js, "let __n_x_ = 1;")
}

func TestGenIfElseExpr(t *testing.T) {
	js := compileJS(t, "var x = if true { 1 } else { 2 }")
	assert.Contains(t, js, "let x = (__n.bool(true) ? 1 : 2);")
}

func TestGenAnonymousCallbackWrapped(t *testing.T) {
	js := compileJS(t, "<[x:int] { print x } 5>")
	assert.Contains(t, js, "((x) => {")
	assert.Contains(t, js, "})(5);")
}
