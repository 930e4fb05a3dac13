// Package store owns the ordered task collection and every structural
// mutation of it. Each mutation is followed by a save attempt; a failed save
// never rolls back memory, which stays authoritative for the session.
//
// A Store is not safe for concurrent use.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/codec"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

var (
	ErrDuplicateID = errors.New("store: duplicate task id")
	ErrSaveFailed  = errors.New("store: save failed")
	ErrLoadFailed  = errors.New("store: load failed")
)

type Saver interface {
	Save(ctx context.Context, tasks []model.Task) error
}

type Loader interface {
	Load(ctx context.Context) ([]model.Task, storage.LoadReport, error)
}

type Persister interface {
	Saver
	Loader
}

type Aggregates struct {
	TotalCount       int
	CompletedCount   int
	EarnedPoints     int
	TotalPoints      int
	ProgressFraction float64
}

type Store struct {
	tasks   []model.Task
	saver   Saver
	newID   model.IDGenerator
	logger  *log.Logger
	now     func() time.Time
	saveErr error
}

type Option func(*Store)

func WithSaver(s Saver) Option { return func(st *Store) { st.saver = s } }

func WithIDGenerator(gen model.IDGenerator) Option {
	return func(st *Store) {
		if gen != nil {
			st.newID = gen
		}
	}
}

// WithClock sets the source of created and completed timestamps.
func WithClock(now func() time.Time) Option {
	return func(st *Store) {
		if now != nil {
			st.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(st *Store) {
		if l != nil {
			st.logger = l
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		tasks:  make([]model.Task, 0),
		newID:  model.NewULID,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the collection from p and saves through it afterwards. When the
// stored document cannot be read the store starts empty and the load error
// is returned alongside it, wrapped in ErrLoadFailed.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	s := New(append(opts, WithSaver(p))...)
	tasks, report, err := p.Load(ctx)
	if err != nil {
		s.logger.Warn("could not load tasks, starting empty", "err", err)
		return s, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if report.Repaired() {
		s.logger.Warn("repaired stored tasks",
			"assigned_ids", report.AssignedIDs,
			"duplicate_ids", report.DuplicateIDs,
			"empty_text", report.EmptyText,
			"coerced", report.Coerced,
			"unreadable", report.Unreadable,
		)
	}
	s.tasks = tasks
	s.logger.Debug("tasks loaded", "count", len(tasks))
	return s, nil
}

type addConfig struct {
	completed   bool
	id          string
	points      *int
	area        *string
	keepTimes   bool
	createdAt   *time.Time
	completedAt *time.Time
}

type AddOption func(*addConfig)

func AsCompleted(v bool) AddOption { return func(c *addConfig) { c.completed = v } }

// WithID keeps an existing id, as when replaying an import.
func WithID(id string) AddOption { return func(c *addConfig) { c.id = strings.TrimSpace(id) } }

// WithTimestamps keeps recorded timestamps instead of stamping the current
// time, as when replaying an import. Absent values stay absent.
func WithTimestamps(createdAt, completedAt *time.Time) AddOption {
	return func(c *addConfig) {
		c.keepTimes = true
		c.createdAt = model.TimePtr(createdAt)
		c.completedAt = model.TimePtr(completedAt)
	}
}

func WithPoints(p *int) AddOption {
	return func(c *addConfig) {
		if p != nil {
			v := *p
			c.points = &v
		} else {
			c.points = nil
		}
	}
}

func WithArea(a *string) AddOption {
	return func(c *addConfig) {
		if a != nil {
			v := *a
			c.area = &v
		} else {
			c.area = nil
		}
	}
}

// Add appends a task. Text is trimmed and must not be empty.
func (s *Store) Add(ctx context.Context, text string, opts ...AddOption) (model.Task, error) {
	task, err := s.append(text, opts...)
	if err != nil {
		return model.Task{}, err
	}
	s.logger.Debug("task added", "id", task.ID)
	return task.Clone(), s.persist(ctx, "add")
}

func (s *Store) append(text string, opts ...AddOption) (model.Task, error) {
	var cfg addConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	task := model.Task{
		ID:        cfg.id,
		Text:      strings.TrimSpace(text),
		Completed: cfg.completed,
		Points:    cfg.points,
		Area:      cfg.area,
	}
	if task.Text == "" {
		return model.Task{}, model.ErrEmptyText
	}
	if cfg.keepTimes {
		task.CreatedAt = cfg.createdAt
		if task.Completed {
			task.CompletedAt = cfg.completedAt
		}
	} else {
		created := model.Stamp(s.now())
		done := created
		task.CreatedAt = &created
		if task.Completed {
			task.CompletedAt = &done
		}
	}
	if task.ID == "" {
		task.ID = s.uniqueID()
	} else if s.indexOf(task.ID) >= 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrDuplicateID, task.ID)
	}
	s.tasks = append(s.tasks, task)
	return task, nil
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// Toggle flips completion. It reports false, without saving, when id is
// unknown.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.tasks[i].CompletedAt = nil
	if s.tasks[i].Completed {
		now := model.Stamp(s.now())
		s.tasks[i].CompletedAt = &now
	}
	s.logger.Debug("task toggled", "id", id, "completed", s.tasks[i].Completed)
	return true, s.persist(ctx, "toggle")
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.logger.Debug("task deleted", "id", id)
	return true, s.persist(ctx, "delete")
}

// Move takes the task at from and drops it into slot to, where slot i sits
// before the task currently at i and slot Len() is after the last task.
// Because the task is removed first, a slot past from lands at to-1.
// to is clamped to [0, Len()]; an out-of-range from or a drop back into the
// task's own position is a no-op.
func (s *Store) Move(ctx context.Context, from, to int) (bool, error) {
	n := len(s.tasks)
	if from < 0 || from >= n {
		return false, nil
	}
	to = max(0, min(to, n))
	if to == from {
		return false, nil
	}
	insert := to
	if to > from {
		insert = to - 1
	}
	if insert == from {
		return false, nil
	}
	task := s.tasks[from]
	s.tasks = slices.Delete(s.tasks, from, from+1)
	s.tasks = slices.Insert(s.tasks, insert, task)
	s.logger.Debug("task moved", "id", task.ID, "from", from, "to", insert)
	return true, s.persist(ctx, "move")
}

// Import appends every new record of an export document in document order.
// A malformed document leaves the collection untouched.
func (s *Store) Import(ctx context.Context, doc []byte) (codec.ImportResult, error) {
	res, err := codec.Decode(doc, s.tasks, s.newID)
	if err != nil {
		return codec.ImportResult{}, err
	}
	accepted := make([]model.Task, 0, len(res.Accepted))
	for _, in := range res.Accepted {
		task, addErr := s.append(in.Text,
			WithID(in.ID),
			AsCompleted(in.Completed),
			WithPoints(in.Points),
			WithArea(in.Area),
			WithTimestamps(in.CreatedAt, in.CompletedAt),
		)
		if addErr != nil {
			res.Skipped++
			continue
		}
		accepted = append(accepted, task.Clone())
	}
	res.Accepted = accepted
	s.logger.Info("import finished", "accepted", len(accepted), "skipped", res.Skipped)
	if len(accepted) == 0 {
		return res, nil
	}
	return res, s.persist(ctx, "import")
}

func (s *Store) Get(id string) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

func (s *Store) Len() int { return len(s.tasks) }

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []model.Task {
	return cloneAll(s.tasks, func(model.Task) bool { return true })
}

func (s *Store) Active() []model.Task {
	return cloneAll(s.tasks, func(t model.Task) bool { return !t.Completed })
}

func (s *Store) Completed() []model.Task {
	return cloneAll(s.tasks, func(t model.Task) bool { return t.Completed })
}

func (s *Store) IndexOf(id string) int { return s.indexOf(id) }

func (s *Store) Aggregates() Aggregates {
	var a Aggregates
	a.TotalCount = len(s.tasks)
	for _, t := range s.tasks {
		points, hasPoints := t.PointsValue()
		if hasPoints {
			a.TotalPoints += points
		}
		if t.Completed {
			a.CompletedCount++
			if hasPoints {
				a.EarnedPoints += points
			}
		}
	}
	if a.TotalCount > 0 {
		a.ProgressFraction = float64(a.CompletedCount) / float64(a.TotalCount)
	}
	return a
}

// SaveErr is the error of the most recent save, nil once a save succeeds.
func (s *Store) SaveErr() error { return s.saveErr }

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func (s *Store) persist(ctx context.Context, op string) error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.Save(ctx, s.tasks); err != nil {
		s.saveErr = err
		s.logger.Warn("save failed, keeping changes in memory", "op", op, "err", err)
		return fmt.Errorf("%w after %s: %w", ErrSaveFailed, op, err)
	}
	s.saveErr = nil
	return nil
}

func cloneAll(in []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(in))
	for _, t := range in {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
