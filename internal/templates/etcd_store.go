package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/auto-dns/mira-gateway/internal/config"
	"github.com/auto-dns/mira-gateway/internal/domain"
)

type etcdClient interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Delete(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.DeleteResponse, error)
	Grant(ctx context.Context, ttl int64) (*clientv3.LeaseGrantResponse, error)
	Txn(ctx context.Context) clientv3.Txn
	Revoke(ctx context.Context, id clientv3.LeaseID) (*clientv3.LeaseRevokeResponse, error)
	Close() error
}

// EtcdStore keeps one key per template under the configured prefix so
// several gateway replicas can share a template set.
type EtcdStore struct {
	client   etcdClient
	cfg      *config.EtcdConfig
	hostname string
	logger   zerolog.Logger
}

func NewEtcdStore(client etcdClient, cfg *config.EtcdConfig, hostname string, logger zerolog.Logger) *EtcdStore {
	return &EtcdStore{
		client:   client,
		cfg:      cfg,
		hostname: hostname,
		logger:   logger.With().Str("component", "template_store").Str("backend", "etcd").Logger(),
	}
}

func (s *EtcdStore) Load(ctx context.Context) ([]domain.Template, error) {
	resp, err := s.client.Get(ctx, s.basePrefix()+"/", clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("etcd get templates: %w", err)
	}

	seeded := false
	var entries []etcdTemplate
	for _, kv := range resp.Kvs {
		key := string(kv.Key)
		if key == s.markerKey() {
			seeded = true
			continue
		}
		if !strings.HasPrefix(key, s.itemPrefix()) {
			continue
		}
		entry, err := unmarshalEtcdTemplate(kv.Value)
		if err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to parse template")
			continue
		}
		entries = append(entries, entry)
	}

	if !seeded && len(entries) == 0 {
		s.logger.Info().Msg("No templates stored, writing defaults")
		templates := DefaultTemplates()
		if err := s.Save(ctx, templates); err != nil {
			return nil, err
		}
		return templates, nil
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	templates := make([]domain.Template, 0, len(entries))
	for _, e := range entries {
		templates = append(templates, withEmptyCollections(e.Template))
	}
	return templates, nil
}

// Save replaces the stored set in one transaction: stale keys are deleted
// and every template is rewritten with its position.
func (s *EtcdStore) Save(ctx context.Context, templates []domain.Template) error {
	existing, err := s.client.Get(ctx, s.itemPrefix(), clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return fmt.Errorf("etcd list template keys: %w", err)
	}

	keep := make(map[string]struct{}, len(templates))
	ops := make([]clientv3.Op, 0, len(templates)+len(existing.Kvs)+1)
	for i, t := range templates {
		value, err := marshalEtcdTemplate(i, t)
		if err != nil {
			return err
		}
		key := s.itemKey(t.ID)
		keep[key] = struct{}{}
		ops = append(ops, clientv3.OpPut(key, value))
	}
	for _, kv := range existing.Kvs {
		if _, ok := keep[string(kv.Key)]; !ok {
			ops = append(ops, clientv3.OpDelete(string(kv.Key)))
		}
	}
	ops = append(ops, clientv3.OpPut(s.markerKey(), time.Now().UTC().Format(time.RFC3339)))

	if _, err := s.client.Txn(ctx).Then(ops...).Commit(); err != nil {
		return fmt.Errorf("etcd save templates: %w", err)
	}
	s.logger.Debug().Int("count", len(templates)).Msg("Templates saved")
	return nil
}

// Lock acquires a lease-backed lock key, runs fn and releases the lock.
func (s *EtcdStore) Lock(ctx context.Context, fn func() error) error {
	lockKey := fmt.Sprintf("/locks%s", s.basePrefix())
	leaseResp, err := s.client.Grant(ctx, int64(s.cfg.LockTTL))
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	acquired := false
	deadline := time.Now().Add(seconds(s.cfg.LockTimeout))
	for time.Now().Before(deadline) {
		txnResp, err := s.client.Txn(ctx).
			If(clientv3.Compare(clientv3.CreateRevision(lockKey), "=", 0)).
			Then(clientv3.OpPut(lockKey, s.hostname, clientv3.WithLease(leaseResp.ID))).
			Commit()
		if err != nil {
			s.revoke(lockKey, leaseResp.ID)
			return err
		}
		if txnResp.Succeeded {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			s.revoke(lockKey, leaseResp.ID)
			return ctx.Err()
		case <-time.After(seconds(s.cfg.LockRetryInterval)):
		}
	}
	if !acquired {
		s.revoke(lockKey, leaseResp.ID)
		return fmt.Errorf("failed to acquire lock on %s", lockKey)
	}

	err = fn()

	if _, errDel := s.client.Delete(context.WithoutCancel(ctx), lockKey); errDel != nil {
		s.logger.Warn().Err(errDel).Msgf("failed to delete lock key %s", lockKey)
	}
	s.revoke(lockKey, leaseResp.ID)
	return err
}

func (s *EtcdStore) revoke(lockKey string, id clientv3.LeaseID) {
	if _, err := s.client.Revoke(context.Background(), id); err != nil {
		s.logger.Warn().Err(err).Msgf("failed to revoke lease for %s", lockKey)
	}
}

func (s *EtcdStore) Close() error {
	return s.client.Close()
}

func (s *EtcdStore) basePrefix() string {
	return strings.TrimRight(s.cfg.PathPrefix, "/")
}

func (s *EtcdStore) itemPrefix() string {
	return s.basePrefix() + "/items/"
}

func (s *EtcdStore) itemKey(id domain.TemplateID) string {
	return s.itemPrefix() + url.PathEscape(string(id))
}

func (s *EtcdStore) markerKey() string {
	return s.basePrefix() + "/initialized"
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

type etcdTemplate struct {
	Position int             `json:"position"`
	Template domain.Template `json:"template"`
}

func marshalEtcdTemplate(pos int, t domain.Template) (string, error) {
	b, err := json.Marshal(etcdTemplate{Position: pos, Template: t})
	if err != nil {
		return "", fmt.Errorf("encode template %s: %w", t.ID, err)
	}
	return string(b), nil
}

func unmarshalEtcdTemplate(raw []byte) (etcdTemplate, error) {
	var wire etcdTemplate
	if err := json.Unmarshal(raw, &wire); err != nil {
		return etcdTemplate{}, fmt.Errorf("decode etcd value: %w", err)
	}
	return wire, nil
}
