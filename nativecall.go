package nativecall

import (
	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/arranger"
	"github.com/wippyai/nativecall/binding"
	"github.com/wippyai/nativecall/errors"
)

// Signature is the platform-neutral shape of a native function.
type Signature = arranger.Signature

var cache = arranger.NewCache()

// Arrange returns the downcall sequence of sig on variant v. Results are
// memoized process-wide by shape; see arranger.Cache for how layout names
// are treated.
func Arrange(v abi.Variant, sig Signature) (*binding.CallingSequence, error) {
	desc, err := descriptorFor(v)
	if err != nil {
		return nil, err
	}
	return cache.Arrange(desc, sig)
}

// ArrangeUpcall returns the sequence a managed callback invoked from native
// code sees on variant v.
func ArrangeUpcall(v abi.Variant, sig Signature) (*binding.CallingSequence, error) {
	desc, err := descriptorFor(v)
	if err != nil {
		return nil, err
	}
	return cache.ArrangeUpcall(desc, sig)
}

// ArrangeNative arranges a downcall for the variant of the running OS.
func ArrangeNative(sig Signature) (*binding.CallingSequence, error) {
	return Arrange(abi.NativeVariant(), sig)
}

// CacheStats returns the hit and miss counters of the process-wide cache.
func CacheStats() (hits, misses uint64) {
	return cache.Stats()
}

func descriptorFor(v abi.Variant) (*abi.Descriptor, error) {
	desc := v.Descriptor()
	if desc == nil {
		return nil, errors.NotFound(errors.PhaseArrange, "abi variant", v.String())
	}
	return desc, nil
}
