// Package filestore — файловая реализация service.Repository.
// Все данные живут в одном JSON документе, который целиком перечитывается
// и переписывается при каждой мутации. Построчной атомарности нет, поэтому
// все мутирующие вызовы сериализуются через один мьютекс процесса.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trustex-app/trustex-core/internal/models"
	"github.com/trustex-app/trustex-core/internal/service"
	"github.com/trustex-app/trustex-core/utils"
)

const dataFileName = "db.json"

type document struct {
	Users        []models.User              `json:"users"`
	Wallets      []models.Wallet            `json:"wallets"`
	Transactions []models.Transaction       `json:"transactions"`
	Trades       []models.Trade             `json:"trades"`
	Deposits     []models.DepositRequest    `json:"deposit_requests"`
	Withdrawals  []models.WithdrawalRequest `json:"withdraw_requests"`
}

type Store struct {
	path   string
	logger *utils.Logger

	mu  sync.Mutex
	doc *document

	// persist=false у транзакционного клона: на диск пишет только
	// внешний Store после успешного fn.
	persist bool
}

func NewStore(dataDir string, logger *utils.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать папку данных: %w", err)
	}

	s := &Store{
		path:    filepath.Join(dataDir, dataFileName),
		logger:  logger,
		doc:     &document{},
		persist: true,
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("не удалось инициализировать файл данных: %w", err)
		}
		logger.Infof("📦 Создан файл данных: %s", s.path)
	} else {
		if err := s.load(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл данных: %w", err)
	}
	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("не удалось десериализовать данные: %w", err)
	}
	s.doc = doc
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("не удалось сериализовать данные: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("не удалось записать файл данных: %w", err)
	}
	return nil
}

// commit пишет документ на диск после мутации. Транзакционный клон
// накапливает изменения в памяти, их сохранит внешний WithTx.
func (s *Store) commit() error {
	if !s.persist {
		return nil
	}
	return s.save()
}

// WithTx исполняет fn над копией документа под глобальным мьютексом.
// При ошибке копия отбрасывается — частичных изменений не бывает; при
// успехе документ подменяется и пишется на диск целиком.
func (s *Store) WithTx(ctx context.Context, fn func(tx service.Repository) error) error {
	if !s.persist {
		// Уже внутри транзакции — работаем на том же клоне.
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone, err := cloneDocument(s.doc)
	if err != nil {
		return err
	}

	txStore := &Store{path: s.path, logger: s.logger, doc: clone, persist: false}
	if err := fn(txStore); err != nil {
		return err
	}

	s.doc = txStore.doc
	return s.save()
}

func cloneDocument(doc *document) (*document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("не удалось скопировать документ: %w", err)
	}
	clone := &document{}
	if err := json.Unmarshal(data, clone); err != nil {
		return nil, fmt.Errorf("не удалось скопировать документ: %w", err)
	}
	return clone, nil
}

func (s *Store) Close() error {
	s.logger.Info("Файловое хранилище закрыто")
	return nil
}
