package common

// AegisVersion is the current Aegis compiler version as a string.
const AegisVersion string = "0.1.0"

// AegisFileExt is the file extension for an Aegis source file.
const AegisFileExt string = ".ae"

// TargetTriple is the LLVM target triple all output is generated for.  Aegis
// is a Windows-first language: this is the only supported target.
const TargetTriple string = "x86_64-pc-windows-msvc"

// RuntimePrefix is the symbol prefix of the Aegis runtime ABI.
const RuntimePrefix string = "aegis_"
