package memory

import (
	"testing"

	"github.com/nilfjord/seqstore/lib/kv"
	"github.com/nilfjord/seqstore/lib/kv/conformance"
)

func Test(t *testing.T) {
	conformance.RunGatewayTests(t, "MemoryGateway", func() kv.Gateway {
		return NewGateway(nil)
	})
}
