package listproto

import (
	"sync"

	"github.com/nilfjord/seqstore/lib/kv"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("listproto")

const (
	// DefaultMaxElementPerPage is the page size used by NewEngine until
	// ConfigureMaximumNumberOfElementPerPage is called.
	DefaultMaxElementPerPage = 50
	// MinMaxElementPerPage is the smallest page size the engine accepts.
	MinMaxElementPerPage = 1
)

// Config is the engine's process-wide, per-instance configuration: which
// store/table to address and how big a page may grow before rollover.
type Config struct {
	Region            string
	TableName         string
	MaxElementPerPage int
}

// Engine is the append and retrieval protocol bound to one kv.Gateway and
// one Config. It replaces the source's global configuration record with an
// explicit, constructed-once value: ConfigureStore and
// ConfigureMaximumNumberOfElementPerPage mutate only this instance's Config,
// under a lock, never a package-level shared record.
type Engine struct {
	gw kv.Gateway

	mu  sync.RWMutex
	cfg Config
}

// NewEngine constructs an Engine bound to gw, addressing the given region
// and table, with MaxElementPerPage at its default until reconfigured.
func NewEngine(gw kv.Gateway, region, table string) *Engine {
	return &Engine{
		gw: gw,
		cfg: Config{
			Region:            region,
			TableName:         table,
			MaxElementPerPage: DefaultMaxElementPerPage,
		},
	}
}

// ConfigureStore updates the region and table this Engine addresses.
func (e *Engine) ConfigureStore(region, table string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Region = region
	e.cfg.TableName = table
}

// ConfigureMaximumNumberOfElementPerPage updates the page size threshold
// that triggers rollover. Values below MinMaxElementPerPage are clamped up.
func (e *Engine) ConfigureMaximumNumberOfElementPerPage(n int) {
	if n < MinMaxElementPerPage {
		n = MinMaxElementPerPage
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.MaxElementPerPage = n
}

// GetCurrentConfiguration returns the Engine's live Config.
func (e *Engine) GetCurrentConfiguration() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// GetConstants returns the label constants used to suffix keys.
func (e *Engine) GetConstants() Constants {
	return constants()
}

func (e *Engine) maxElementPerPage() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.MaxElementPerPage
}

// wrapErr converts a *kv.Error into the engine's own error kind space. Any
// other error (should not occur - every kv.Gateway method is documented to
// return either nil or a *kv.Error) is reported as KindStoreUnavailable.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	kvErr, ok := err.(*kv.Error)
	if !ok {
		return NewError(KindStoreUnavailable, err.Error())
	}
	if kvErr.Kind == kv.KindUnavailable {
		return NewError(KindStoreUnavailable, kvErr.Msg)
	}
	return NewError(KindStoreUnavailable, kvErr.Error())
}
