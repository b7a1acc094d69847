// Package storage provides the bbolt-backed persistence layer satisfying
// both vesting.Store and access.RoleStore. It follows the bucket-per-concern
// and JSON-record conventions of the reference identity-gateway service's
// BoltDB store (services/identity-gateway/store.go in the teacher
// repository), adapted from that service's verification/alias/idempotency
// buckets to the vesting engine's schedule/counter/aggregate/claim/role
// buckets.
package storage

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/vesting"
)

var (
	bucketSchedules = []byte("schedules")
	bucketCounters  = []byte("counters")
	bucketAggregate = []byte("aggregate")
	bucketClaimed   = []byte("claimed")
	bucketRoles     = []byte("roles")
	bucketConfig    = []byte("config")

	keyAggregate       = []byte("aggregate")
	keyMerkleRoot      = []byte("merkle_root")
	keyVTokenCost      = []byte("vtoken_cost")
	keyPaymentReceiver = []byte("payment_receiver")
	keyAdmin           = []byte("admin")
	keyPendingAdmin    = []byte("pending_admin")
)

// ErrNotFound is not returned by any Store method: an absent key surfaces
// as the narrower, per-concern zero value instead (an empty Schedule, a
// zero counter), matching vesting.Store's documented contract.
var ErrNotFound = errors.New("storage: record not found")

// Store is the bbolt-backed implementation of vesting.Store and
// access.RoleStore. A single *bolt.DB backs both, since they are always
// opened, migrated, and closed together for one running engine.
type Store struct {
	db *bolt.DB
}

// Open initialises (and migrates) the BoltDB-backed store at path.
func Open(path string, options *bolt.Options) (*Store, error) {
	if options == nil {
		options = &bolt.Options{Timeout: time.Second}
	} else if options.Timeout == 0 {
		options.Timeout = time.Second
	}
	db, err := bolt.Open(path, 0o600, options)
	if err != nil {
		return nil, err
	}
	buckets := [][]byte{bucketSchedules, bucketCounters, bucketAggregate, bucketClaimed, bucketRoles, bucketConfig}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// DB returns the underlying Bolt handle so that sibling stores backed by
// the same file (notably Ledger) can share one open database rather than
// locking it twice.
func (s *Store) DB() *bolt.DB {
	return s.db
}

// Close releases the underlying Bolt database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// scheduleRecord is the JSON wire shape for a vesting.Schedule: big.Int
// fields are stored as decimal strings since encoding/json has no native
// arbitrary-precision integer type.
type scheduleRecord struct {
	Beneficiary   string `json:"beneficiary"`
	Start         int64  `json:"start"`
	CliffAbsolute int64  `json:"cliffAbsolute"`
	Duration      int64  `json:"duration"`
	SliceSeconds  uint8  `json:"sliceSeconds"`
	AmountTotal   string `json:"amountTotal"`
	Released      string `json:"released"`
	Status        uint8  `json:"status"`
	Revokable     bool   `json:"revokable"`
}

func toRecord(s vesting.Schedule) scheduleRecord {
	return scheduleRecord{
		Beneficiary:   hex.EncodeToString(s.Beneficiary[:]),
		Start:         s.Start,
		CliffAbsolute: s.CliffAbsolute,
		Duration:      s.Duration,
		SliceSeconds:  s.SliceSeconds,
		AmountTotal:   bigString(s.AmountTotal),
		Released:      bigString(s.Released),
		Status:        uint8(s.Status),
		Revokable:     s.Revokable,
	}
}

func fromRecord(r scheduleRecord) (vesting.Schedule, error) {
	var beneficiary [20]byte
	raw, err := hex.DecodeString(r.Beneficiary)
	if err != nil {
		return vesting.Schedule{}, err
	}
	copy(beneficiary[:], raw)
	amount, ok := new(big.Int).SetString(r.AmountTotal, 10)
	if !ok {
		return vesting.Schedule{}, errors.New("storage: invalid amountTotal")
	}
	released, ok := new(big.Int).SetString(r.Released, 10)
	if !ok {
		return vesting.Schedule{}, errors.New("storage: invalid released")
	}
	return vesting.Schedule{
		Beneficiary:   beneficiary,
		Start:         r.Start,
		CliffAbsolute: r.CliffAbsolute,
		Duration:      r.Duration,
		SliceSeconds:  r.SliceSeconds,
		AmountTotal:   amount,
		Released:      released,
		Status:        vesting.Status(r.Status),
		Revokable:     r.Revokable,
	}, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// ScheduleGet implements vesting.Store.
func (s *Store) ScheduleGet(id vesting.ScheduleID) (vesting.Schedule, error) {
	var out vesting.Schedule
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSchedules).Get(id[:])
		if raw == nil {
			out = vesting.Schedule{}
			return nil
		}
		var rec scheduleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		sched, err := fromRecord(rec)
		if err != nil {
			return err
		}
		out = sched
		return nil
	})
	return out, err
}

// SchedulePut implements vesting.Store.
func (s *Store) SchedulePut(id vesting.ScheduleID, sched vesting.Schedule) error {
	encoded, err := json.Marshal(toRecord(sched))
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSchedules).Put(id[:], encoded)
	})
}

// CounterNext implements vesting.Store.
func (s *Store) CounterNext(beneficiary [20]byte) (uint64, error) {
	var next uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCounters)
		raw := bucket.Get(beneficiary[:])
		current := uint64(0)
		if raw != nil {
			current = binary.BigEndian.Uint64(raw)
		}
		next = current
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], current+1)
		return bucket.Put(beneficiary[:], buf[:])
	})
	return next, err
}

// CounterPeek implements vesting.Store.
func (s *Store) CounterPeek(beneficiary [20]byte) (uint64, error) {
	var out uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketCounters).Get(beneficiary[:])
		if raw != nil {
			out = binary.BigEndian.Uint64(raw)
		}
		return nil
	})
	return out, err
}

type aggregateRecord struct {
	CommittedTotal string            `json:"committedTotal"`
	CommittedBy    map[string]string `json:"committedBy"`
}

// AggregateGet implements vesting.Store.
func (s *Store) AggregateGet() (*vesting.Aggregate, error) {
	agg := &vesting.Aggregate{CommittedTotal: big.NewInt(0), CommittedBy: make(map[[20]byte]*big.Int)}
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketAggregate).Get(keyAggregate)
		if raw == nil {
			return nil
		}
		var rec aggregateRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		total, ok := new(big.Int).SetString(rec.CommittedTotal, 10)
		if !ok {
			return errors.New("storage: invalid committedTotal")
		}
		agg.CommittedTotal = total
		for hexAddr, amt := range rec.CommittedBy {
			var addr [20]byte
			raw, err := hex.DecodeString(hexAddr)
			if err != nil {
				return err
			}
			copy(addr[:], raw)
			value, ok := new(big.Int).SetString(amt, 10)
			if !ok {
				return errors.New("storage: invalid committedBy entry")
			}
			agg.CommittedBy[addr] = value
		}
		return nil
	})
	return agg, err
}

// AggregatePut implements vesting.Store.
func (s *Store) AggregatePut(agg *vesting.Aggregate) error {
	rec := aggregateRecord{CommittedTotal: bigString(agg.CommittedTotal), CommittedBy: make(map[string]string, len(agg.CommittedBy))}
	for addr, amt := range agg.CommittedBy {
		rec.CommittedBy[hex.EncodeToString(addr[:])] = bigString(amt)
	}
	encoded, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAggregate).Put(keyAggregate, encoded)
	})
}

// ClaimedGet implements vesting.Store.
func (s *Store) ClaimedGet(fingerprint [32]byte) (bool, error) {
	var claimed bool
	err := s.db.View(func(tx *bolt.Tx) error {
		claimed = tx.Bucket(bucketClaimed).Get(fingerprint[:]) != nil
		return nil
	})
	return claimed, err
}

// ClaimedPut implements vesting.Store.
func (s *Store) ClaimedPut(fingerprint [32]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketClaimed).Put(fingerprint[:], []byte{1})
	})
}

// MerkleRootGet implements vesting.Store.
func (s *Store) MerkleRootGet() ([32]byte, error) {
	var root [32]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketConfig).Get(keyMerkleRoot)
		copy(root[:], raw)
		return nil
	})
	return root, err
}

// MerkleRootPut implements vesting.Store.
func (s *Store) MerkleRootPut(root [32]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfig).Put(keyMerkleRoot, root[:])
	})
}

// VTokenCostGet implements vesting.Store.
func (s *Store) VTokenCostGet() (*big.Int, error) {
	out := big.NewInt(0)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketConfig).Get(keyVTokenCost)
		if raw == nil {
			return nil
		}
		v, ok := new(big.Int).SetString(string(raw), 10)
		if !ok {
			return errors.New("storage: invalid vtoken cost")
		}
		out = v
		return nil
	})
	return out, err
}

// VTokenCostPut implements vesting.Store.
func (s *Store) VTokenCostPut(cost *big.Int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfig).Put(keyVTokenCost, []byte(bigString(cost)))
	})
}

// PaymentReceiverGet implements vesting.Store.
func (s *Store) PaymentReceiverGet() ([20]byte, error) {
	var addr [20]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketConfig).Get(keyPaymentReceiver)
		copy(addr[:], raw)
		return nil
	})
	return addr, err
}

// PaymentReceiverPut implements vesting.Store.
func (s *Store) PaymentReceiverPut(addr [20]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfig).Put(keyPaymentReceiver, addr[:])
	})
}

var _ vesting.Store = (*Store)(nil)
var _ access.RoleStore = (*Store)(nil)
