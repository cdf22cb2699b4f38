package windows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
)

const scanBatch = 100

// Redis кэш окон в Redis: значения в JSON, TTL на ключе.
// Поколение входит в ключ записи, поэтому запись, сделанная после инвалидации
// со старым поколением, никем не читается и истекает по TTL.
type Redis struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedis создает кэш поверх клиента go-redis; prefix отделяет ключи сервиса
func NewRedis(client redis.Cmdable, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) fullKey(k string) string {
	return r.prefix + ":windows:" + k
}

// genKey счетчики поколений лежат вне пространства ключей окон, чтобы InvalidateAll их не удалял
func (r *Redis) genKey(name string) string {
	return r.prefix + ":windows-gen:" + name
}

func (r *Redis) dayKey(barberID *int64, date time.Time, gen Generation) string {
	return r.fullKey(key(barberID, date) + ":" + gen.String())
}

func (r *Redis) generation(ctx context.Context, barberID *int64) (Generation, error) {
	values, err := r.client.MGet(ctx, r.genKey("all"), r.genKey(scope(barberID))).Result()
	if err != nil {
		return Generation{}, err
	}

	var gen Generation
	if gen.All, err = parseCounter(values[0]); err != nil {
		return Generation{}, err
	}
	if gen.Scope, err = parseCounter(values[1]); err != nil {
		return Generation{}, err
	}
	return gen, nil
}

func (r *Redis) Get(ctx context.Context, barberID *int64, date time.Time) (availability.ResolvedDay, Generation, bool, error) {
	gen, err := r.generation(ctx, barberID)
	if err != nil {
		return availability.ResolvedDay{}, Generation{}, false, fmt.Errorf("%w: Get generation: %v", ErrCacheBackend, err)
	}

	raw, err := r.client.Get(ctx, r.dayKey(barberID, date, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return availability.ResolvedDay{}, gen, false, nil
	}
	if err != nil {
		return availability.ResolvedDay{}, gen, false, fmt.Errorf("%w: Get: %v", ErrCacheBackend, err)
	}

	var day availability.ResolvedDay
	if err := json.Unmarshal(raw, &day); err != nil {
		// Битое значение считаем промахом, следующий Set его перезапишет
		return availability.ResolvedDay{}, gen, false, nil
	}

	return day, gen, true, nil
}

// Set сохраняет окна под поколением gen; если поколение уже сменилось, запись пропускается
func (r *Redis) Set(ctx context.Context, barberID *int64, date time.Time, gen Generation, day availability.ResolvedDay) error {
	current, err := r.generation(ctx, barberID)
	if err != nil {
		return fmt.Errorf("%w: Set generation: %v", ErrCacheBackend, err)
	}
	if current != gen {
		return nil
	}

	raw, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := r.client.Set(ctx, r.dayKey(barberID, date, gen), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %v", ErrCacheBackend, err)
	}

	return nil
}

func (r *Redis) InvalidateBarber(ctx context.Context, barberID *int64) error {
	if barberID == nil {
		return r.InvalidateAll(ctx)
	}
	s := scope(barberID)
	if err := r.client.Incr(ctx, r.genKey(s)).Err(); err != nil {
		return fmt.Errorf("%w: incr generation %s: %v", ErrCacheBackend, s, err)
	}
	return r.deleteMatching(ctx, r.fullKey(s+":*"))
}

func (r *Redis) InvalidateAll(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.genKey("all")).Err(); err != nil {
		return fmt.Errorf("%w: incr generation all: %v", ErrCacheBackend, err)
	}
	return r.deleteMatching(ctx, r.fullKey("*"))
}

// parseCounter разбирает значение MGET; отсутствующий ключ означает поколение 0
func parseCounter(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	str, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected generation value %T", v)
	}
	return strconv.ParseInt(str, 10, 64)
}

// deleteMatching удаляет ключи по шаблону порциями через SCAN
func (r *Redis) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("%w: scan %s: %v", ErrCacheBackend, pattern, err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: del: %v", ErrCacheBackend, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
