package arranger

import (
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/nativecall/layout"
)

// SignatureFromWIT builds a signature from WIT parameter and result types.
// No result means void; several results are returned as one struct.
func SignatureFromWIT(params, results []wit.Type) (Signature, error) {
	conv := layout.NewConverter()

	var sig Signature
	for i, p := range params {
		l, err := conv.Convert(p)
		if err != nil {
			return Signature{}, withPath(err, paramName(i))
		}
		sig.Params = append(sig.Params, l)
	}

	switch len(results) {
	case 0:
	case 1:
		l, err := conv.Convert(results[0])
		if err != nil {
			return Signature{}, withPath(err, "return")
		}
		sig.Return = l
	default:
		members := make([]*layout.Layout, 0, len(results))
		for i, r := range results {
			l, err := conv.Convert(r)
			if err != nil {
				return Signature{}, withPath(err, "return", strconv.Itoa(i))
			}
			members = append(members, l)
		}
		sig.Return = layout.Struct(members...)
	}
	return sig, nil
}
