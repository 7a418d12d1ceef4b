package rpcclient

import (
	"time"

	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/pool"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"go.uber.org/zap"
)

// DefaultConnectTimeout bounds how long dialing a peer may take, so a
// single unreachable peer cannot wedge a pool's Acquire forever. As in the
// original server, only the connect is bounded; reads and writes on an
// established RPC socket have no timeout.
const DefaultConnectTimeout = 5 * time.Second

// Peer is the pooled handle a service holds to one downstream service: a
// connection pool of Clients plus the structured call-logging every RPC
// gets wrapped in.
type Peer struct {
	name         string
	localService string
	pool         *pool.Pool[*Client]
	callLogger   *zap.Logger
}

// NewPeer builds a Peer pool over endpoints, using excReg to reconstruct
// declared exceptions returned by calls to this peer.
func NewPeer(localService, remoteService string, endpoints []string, opts pool.Options, excReg *rpcproto.ExceptionRegistry, connLogger, callLogger *zap.Logger) *Peer {
	observer := logging.NewPoolObserver(connLogger, localService, remoteService)
	dial := func(endpoint string) (*Client, error) {
		return Dial(endpoint, DefaultConnectTimeout, excReg)
	}
	p := pool.New[*Client](endpoints, dial, opts, observer)
	return &Peer{name: remoteService, localService: localService, pool: p, callLogger: callLogger}
}

// Prewarm pre-creates the peer's min_size connections.
func (p *Peer) Prewarm() error { return p.pool.Prewarm() }

// Close closes every idle pooled connection.
func (p *Peer) Close() error { return p.pool.Close() }

// Call acquires a Client, invokes method with req/replyPtr, releases the
// Client, and logs the call under the rpc_call category regardless of
// outcome. localFunction names the handler issuing this sub-call, used for
// correlating fan-out in the call log.
func Call(p *Peer, requestID, localFunction, method string, req any, replyPtr any) error {
	return logging.WrapVoidCall(p.callLogger, logging.CallTags{
		LocalService:   p.localService,
		LocalFunction:  localFunction,
		RemoteService:  p.name,
		RemoteFunction: method,
		RequestID:      requestID,
	}, func() error {
		conn, err := p.pool.Acquire()
		if err != nil {
			return err
		}
		defer p.pool.Release(conn)
		return conn.Call(method, req, replyPtr)
	})
}
