package codegen

import (
	"bufio"
	"strings"
	"testing"

	"aegisc/sema"
	"aegisc/syntax"
)

// genSrc compiles source text all the way to LLVM assembly.
func genSrc(t *testing.T, src string) string {
	t.Helper()

	p := syntax.NewParser("test.ae", "test.ae", bufio.NewReader(strings.NewReader(src)))
	file, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}

	w := sema.NewWalker(file)
	w.Walk()
	for _, cerr := range w.Errors() {
		t.Logf("check error: %s", cerr.Message)
	}
	if len(w.Errors()) > 0 {
		t.Fatal("source did not check cleanly")
	}

	g := NewGenerator(file, w.TypeMap())
	g.Generate()
	return g.EmitText()
}

// wantIR asserts that the emitted assembly contains all the given fragments.
func wantIR(t *testing.T, irText string, fragments ...string) {
	t.Helper()

	for _, fragment := range fragments {
		if !strings.Contains(irText, fragment) {
			t.Errorf("emitted module is missing %q", fragment)
		}
	}

	if t.Failed() {
		t.Log("emitted module:\n" + irText)
	}
}

func TestModuleHeader(t *testing.T) {
	irText := genSrc(t, "func main():\n    pass\n")

	wantIR(t, irText,
		"; ModuleID = 'test.ae'",
		`source_filename = "test.ae"`,
		`target triple = "x86_64-pc-windows-msvc"`,
	)
}

func TestRuntimeDeclarations(t *testing.T) {
	irText := genSrc(t, "func main():\n    pass\n")

	wantIR(t, irText,
		"%aegis_string_t = type opaque",
		"%aegis_array_t = type opaque",
		"%aegis_slice_t = type opaque",
		"declare void @aegis_runtime_init()",
		"declare i8* @aegis_runtime_version()",
		"declare i8* @aegis_alloc(i64 %size)",
		"declare %aegis_string_t* @aegis_read_line()",
		"declare %aegis_slice_t* @aegis_slice_new(%aegis_array_t* %arr, i64 %start, i64 %len)",
		"declare i32 @printf(i8* %format, ...)",
	)
}

func TestMainCallsRuntimeInit(t *testing.T) {
	irText := genSrc(t, "func main():\n    pass\n")

	wantIR(t, irText,
		"define void @main()",
		"call void @aegis_runtime_init()",
		"ret void",
	)
}

func TestArithmeticFunction(t *testing.T) {
	src := "func add(a: i32, b: i32) -> i32:\n" +
		"    return a + b\n"

	irText := genSrc(t, src)

	wantIR(t, irText,
		"define i32 @add(i32 %a, i32 %b)",
		"add i32 %a, %b",
		"ret i32",
	)
}

func TestSignedAndUnsignedDivision(t *testing.T) {
	src := "func sd(a: i32, b: i32) -> i32:\n" +
		"    return a / b\n" +
		"\n" +
		"func ud(a: u32, b: u32) -> u32:\n" +
		"    return a / b\n"

	irText := genSrc(t, src)

	wantIR(t, irText, "sdiv i32", "udiv i32")
}

func TestFloatInstructionSelection(t *testing.T) {
	src := "func scale(x: f64) -> f64:\n" +
		"    return x * 2.5\n"

	irText := genSrc(t, src)

	wantIR(t, irText, "fmul double")
}

func TestWideningConversion(t *testing.T) {
	src := "func widen(a: i8) -> i64:\n" +
		"    return a\n" +
		"\n" +
		"func zwiden(a: u8) -> u64:\n" +
		"    return a\n"

	irText := genSrc(t, src)

	wantIR(t, irText, "sext i8", "zext i8")
}

func TestIfElseLowering(t *testing.T) {
	src := "func pick(n: i32) -> i32:\n" +
		"    if n > 0:\n" +
		"        return 1\n" +
		"    elif n < 0:\n" +
		"        return 2\n" +
		"    else:\n" +
		"        return 3\n"

	irText := genSrc(t, src)

	wantIR(t, irText,
		"icmp sgt i32 %n, 0",
		"icmp slt i32 %n, 0",
		"br i1",
		"ret i32 1",
		"ret i32 2",
		"ret i32 3",
	)
}

func TestWhileLoopLowering(t *testing.T) {
	src := "func count() -> i32:\n" +
		"    var n = 0\n" +
		"    while n < 10:\n" +
		"        n += 1\n" +
		"    return n\n"

	irText := genSrc(t, src)

	wantIR(t, irText,
		"alloca i32",
		"icmp slt i32",
		"br i1",
		"store i32",
	)
}

func TestStringLiteralInterning(t *testing.T) {
	src := "func main():\n" +
		"    println(\"hello\")\n" +
		"    println(\"hello\")\n"

	irText := genSrc(t, src)

	wantIR(t, irText,
		"private unnamed_addr constant",
		"call %aegis_string_t* @aegis_string_new",
		"call void @aegis_println",
	)

	// the payload is interned once no matter how often it appears
	if strings.Count(irText, "c\"hello\\00\"") != 1 {
		t.Errorf("expected exactly one interned copy of the literal")
	}
}

func TestDiscardedReadLineIsFreed(t *testing.T) {
	src := "func main():\n" +
		"    read_line()\n"

	irText := genSrc(t, src)

	wantIR(t, irText,
		"call %aegis_string_t* @aegis_read_line()",
		"call void @aegis_string_free",
	)
}

func TestEnumVariantConstant(t *testing.T) {
	src := "enum Color:\n" +
		"    Red\n" +
		"    Green\n" +
		"    Blue\n" +
		"\n" +
		"func pick() -> Color:\n" +
		"    return Color.Blue\n"

	irText := genSrc(t, src)

	wantIR(t, irText, "ret i32 2")
}

func TestDeterministicOutput(t *testing.T) {
	src := "func main():\n" +
		"    let x = 1 + 2\n" +
		"    println(\"done\")\n"

	first := genSrc(t, src)
	second := genSrc(t, src)

	if first != second {
		t.Errorf("generation is not deterministic for identical input")
	}
}
