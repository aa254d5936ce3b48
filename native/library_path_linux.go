package native

// DefaultLibraryName is resolved through the dynamic loader search path.
const DefaultLibraryName = "libSNPE.so"
