package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionHeader はブラウザのタブなど、利用者のセッションを識別するヘッダーです。
	SessionHeader  = "X-Session-ID"
	batchKeyPrefix = "thumbnail:batch:"
)

// BatchGuard は同じ利用者のバッチが同時に走らないようにするロックです。
type BatchGuard interface {
	// Acquire はロックを取れたら ok=true と、解放に使うトークンを返します。
	// 別のバッチが実行中なら ok=false です。
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	// Release は token が現在の保持者と一致する場合だけロックを解放します。
	Release(ctx context.Context, key, token string) error
}

// RequesterKey は X-Session-ID ヘッダー、なければ認証情報のハッシュから利用者を識別します。
// 認証情報そのものはキーに含めません。
func RequesterKey(r *http.Request, credential string) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return batchKeyPrefix + "session:" + id
	}
	sum := sha256.Sum256([]byte(credential))
	return batchKeyPrefix + "key:" + hex.EncodeToString(sum[:])
}

// MemoryGuard はプロセス内だけで有効な BatchGuard です。
type MemoryGuard struct {
	mu       sync.Mutex
	inflight map[string]string
}

// NewMemoryGuard は空の MemoryGuard を生成します。Redis を設定しない場合の既定です。
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{inflight: make(map[string]string)}
}

// Acquire は key が未使用ならトークンを発行して登録します。
func (g *MemoryGuard) Acquire(_ context.Context, key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return "", false, nil
	}
	token := uuid.NewString()
	g.inflight[key] = token
	return token, true, nil
}

// Release はトークンが一致する場合だけ key を解放します。
func (g *MemoryGuard) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight[key] == token {
		delete(g.inflight, key)
	}
	return nil
}

// releaseScript は保持者のトークンと一致する場合だけキーを削除します。
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisLocker は RedisGuard が使う go-redis のコマンドだけを切り出したものです。
type redisLocker interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisGuard は複数インスタンスで共有される BatchGuard です。
// プロセスが落ちてもロックは TTL で自然に解放されます。
type RedisGuard struct {
	client redisLocker
	ttl    time.Duration
}

// NewRedisGuard は ttl でロックを自動失効させる RedisGuard を生成します。
func NewRedisGuard(client redisLocker, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

// Acquire は SETNX でトークンを書き込み、書き込めた場合だけロックを得ます。
func (g *RedisGuard) Acquire(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// Release はトークンが一致する場合だけキーを削除します。別のバッチが取り直したロックは残ります。
func (g *RedisGuard) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, g.client, []string{key}, token).Err()
}
