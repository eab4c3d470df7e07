// Package tasksync keeps a local copy of the user's tasks in step with the
// server.
//
// Structural changes are never optimistic: the local sequence changes only
// after the server confirms a write, and the server's returned record always
// replaces the local one. The sequence keeps every incomplete task ahead of
// every completed one, with server order preserved inside each group.
//
// Operations may overlap. Results are merged by task id, and results that
// arrive after Close or after the session changes are dropped.
package tasksync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"todocli/internal/apierr"
	"todocli/internal/logging"
	"todocli/internal/service"
	"todocli/internal/session"
)

const (
	// MsgTitleRequired is reported when a task is created without a title.
	MsgTitleRequired = "Task title is required."

	// MsgTitleEmpty is reported when an edit clears the title.
	MsgTitleEmpty = "Title cannot be empty."
)

var (
	// ErrClosed is returned by operations started after Close.
	ErrClosed = errors.New("tasksync: engine closed")

	// ErrUnknownTask is returned when an id is not in the local sequence.
	ErrUnknownTask = errors.New("tasksync: task not in list")
)

// DefaultLoadTimeout bounds a shared LoadAll request.
const DefaultLoadTimeout = 10 * time.Second

// Draft holds the create form fields.
type Draft struct {
	Title       string
	Description string
}

// Edit is the task currently being edited and its working field values.
type Edit struct {
	ID     int64
	Fields service.TaskInput
}

// State is a snapshot of the engine.
type State struct {
	Tasks         []service.Task
	Draft         Draft
	Editing       *Edit
	PendingDelete int64 // 0 when no delete confirmation is open
	Err           string
}

// Engine synchronizes the task list for one view activation.
type Engine struct {
	svc         service.TaskService
	act         *session.Activation
	log         *zap.Logger
	loads       singleflight.Group
	loadTimeout time.Duration
	unsubscribe func()

	mu            sync.Mutex
	tasks         []service.Task
	draft         Draft
	edit          *Edit
	pendingDelete int64
	errMsg        string
	gen           uint64
	closed        bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithLoadTimeout bounds the list request shared by concurrent LoadAll calls.
func WithLoadTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.loadTimeout = d
		}
	}
}

// New returns an engine bound to act. The engine drops its state whenever
// the session changes.
func New(svc service.TaskService, act *session.Activation, opts ...Option) *Engine {
	e := &Engine{svc: svc, act: act, loadTimeout: DefaultLoadTimeout}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = logging.Named("tasksync")
	}
	e.unsubscribe = act.Session().Subscribe(e.onSession)
	return e
}

func (e *Engine) onSession(ev session.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.tasks = nil
	e.draft = Draft{}
	e.edit = nil
	e.pendingDelete = 0
	e.errMsg = ""
	e.log.Debug("state dropped", zap.Stringer("event", ev.Kind))
}

// Close detaches the engine. Results of requests still in flight are
// discarded.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.unsubscribe()
}

// State returns a snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := State{
		Tasks:         append([]service.Task(nil), e.tasks...),
		Draft:         e.draft,
		PendingDelete: e.pendingDelete,
		Err:           e.errMsg,
	}
	if e.edit != nil {
		ed := *e.edit
		st.Editing = &ed
	}
	return st
}

// Tasks returns a copy of the local sequence.
func (e *Engine) Tasks() []service.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]service.Task(nil), e.tasks...)
}

// Err returns the message of the last failed operation, or "".
func (e *Engine) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// LoadAll replaces the local sequence with the server's. On failure the
// previous sequence is kept.
//
// Concurrent calls share one request, which outlives a cancelled caller.
func (e *Engine) LoadAll(ctx context.Context) error {
	gen, err := e.begin(ctx)
	if err != nil {
		return err
	}
	ch := e.loads.DoChan("all", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.loadTimeout)
		defer cancel()
		return e.svc.ListTasks(lctx)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return apierr.Transport(ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return e.fail(gen, "load", res.Err)
	}
	tasks := partition(res.Val.([]service.Task))
	e.commit(gen, func() {
		e.tasks = tasks
		e.errMsg = ""
	})
	e.log.Debug("tasks loaded", logging.Count(len(tasks)), zap.Bool("shared", res.Shared))
	return nil
}

// Create sends a new task and prepends the server's record. The draft is
// kept until the server accepts it. A blank title is rejected without a
// request.
func (e *Engine) Create(ctx context.Context, title, description string) error {
	e.mu.Lock()
	if !e.closed {
		e.draft = Draft{Title: title, Description: description}
	}
	gen := e.gen
	e.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		return e.fail(gen, "create", apierr.Validation(MsgTitleRequired))
	}
	gen, err := e.begin(ctx)
	if err != nil {
		return err
	}
	task, err := e.svc.CreateTask(ctx, service.TaskInput{Title: title, Description: description})
	if err != nil {
		return e.fail(gen, "create", err)
	}
	e.commit(gen, func() {
		rest := e.tasks
		if i := indexOf(rest, task.ID); i >= 0 {
			rest = append(append([]service.Task(nil), rest[:i]...), rest[i+1:]...)
		}
		e.tasks = partition(append([]service.Task{task}, rest...))
		e.draft = Draft{}
		e.errMsg = ""
	})
	e.log.Debug("task created", logging.TaskID(task.ID))
	return nil
}

// StartEdit opens the edit form for id, seeded from the local record.
func (e *Engine) StartEdit(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := indexOf(e.tasks, id)
	if i < 0 {
		return ErrUnknownTask
	}
	e.edit = &Edit{ID: id, Fields: e.tasks[i].Input()}
	return nil
}

// CancelEdit closes the edit form without sending anything.
func (e *Engine) CancelEdit() {
	e.mu.Lock()
	e.edit = nil
	e.mu.Unlock()
}

// Update sends the full field set for id and puts the server's record in
// its place. A blank title is rejected without a request.
func (e *Engine) Update(ctx context.Context, id int64, in service.TaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		e.mu.Lock()
		gen := e.gen
		e.mu.Unlock()
		return e.fail(gen, "update", apierr.Validation(MsgTitleEmpty))
	}
	return e.write(ctx, "update", id, in, replaceAt)
}

// Toggle flips the completion of task and sends the full record. The
// server's record moves to the end of its new group.
func (e *Engine) Toggle(ctx context.Context, task service.Task) error {
	in := task.Input()
	in.Completed = !in.Completed
	return e.write(ctx, "toggle", task.ID, in, moveToGroupEnd)
}

func (e *Engine) write(ctx context.Context, op string, id int64, in service.TaskInput,
	place func([]service.Task, int, service.Task) []service.Task) error {
	gen, err := e.begin(ctx)
	if err != nil {
		return err
	}
	task, err := e.svc.UpdateTask(ctx, id, in)
	if err != nil {
		return e.fail(gen, op, err)
	}
	e.commit(gen, func() {
		if e.edit != nil && e.edit.ID == id {
			e.edit = nil
		}
		i := indexOf(e.tasks, id)
		if i < 0 {
			// Deleted while the update was in flight.
			return
		}
		e.tasks = place(e.tasks, i, task)
		e.errMsg = ""
	})
	e.log.Debug("task updated", logging.Op(op), logging.TaskID(id))
	return nil
}

// RequestDelete opens the delete confirmation for id.
func (e *Engine) RequestDelete(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if indexOf(e.tasks, id) < 0 {
		return ErrUnknownTask
	}
	e.pendingDelete = id
	return nil
}

// CancelDelete closes the delete confirmation.
func (e *Engine) CancelDelete() {
	e.mu.Lock()
	e.pendingDelete = 0
	e.mu.Unlock()
}

// Delete removes id on the server, then locally. The confirmation stays
// open if the request fails.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	gen, err := e.begin(ctx)
	if err != nil {
		return err
	}
	if err := e.svc.DeleteTask(ctx, id); err != nil {
		return e.fail(gen, "delete", err)
	}
	e.commit(gen, func() {
		if i := indexOf(e.tasks, id); i >= 0 {
			e.tasks = append(append([]service.Task(nil), e.tasks[:i]...), e.tasks[i+1:]...)
		}
		if e.pendingDelete == id {
			e.pendingDelete = 0
		}
		if e.edit != nil && e.edit.ID == id {
			e.edit = nil
		}
		e.errMsg = ""
	})
	e.log.Debug("task deleted", logging.TaskID(id))
	return nil
}

// begin checks the engine is open and the session usable, and returns the
// state generation results must match to be applied.
func (e *Engine) begin(ctx context.Context) (uint64, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}
	if _, err := e.act.Require(ctx); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen, nil
}

// commit runs fn under the lock unless the engine was closed or its state
// dropped since gen.
func (e *Engine) commit(gen uint64, fn func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.gen != gen {
		return false
	}
	fn()
	return true
}

// fail records err as the user-facing message and returns it normalized.
// Auth failures redirect to login instead.
func (e *Engine) fail(gen uint64, op string, err error) error {
	ae := apierr.Normalize(err)
	if ae.Kind == apierr.KindAuth {
		e.act.Redirect()
	}
	e.log.Debug("operation failed", logging.Op(op), logging.Kind(ae.Kind.String()), logging.Err(err))
	e.commit(gen, func() {
		if ae.Kind != apierr.KindAuth {
			e.errMsg = apierr.UserMessage(ae)
		}
	})
	return ae
}
