package emitter

// Runtime surface symbol names. The runtime library itself lives outside
// this module; the emitter only ever calls into it by name, so the names
// are centralized here rather than scattered as literal strings through
// statement.go/value.go/fndef.go.
const (
	rtLazy             = "LazyT"
	rtTuple            = "TupleT"
	rtFn               = "FnT"
	rtWeakFn           = "WeakFnT"
	rtVariant          = "VariantT"
	rtEmpty            = "Empty"
	rtTypedClosureI    = "TypedClosureI"
	rtTypedClosureG    = "TypedClosureG"
	rtClosureFn        = "ClosureFnT"
	rtAwait            = "WorkManager::await"
	rtSetupClosure     = "setup_closure"
	rtLoadEnv          = "load_env"
	rtStoreEnv         = "store_env"
	rtMakeLazy         = "make_lazy"
	rtEnsureLazy       = "ensure_lazy"
	rtExtractLazy      = "extract_lazy"
	rtFnCall           = "fn_call"
	rtRemoveLazyT      = "remove_lazy_t"
	rtRemoveSharedPtrT = "remove_shared_ptr_t"
)

// includeLine is the single header line every emitted translation unit
// opens with.
const includeLine = `#include "main/include.hpp"`
