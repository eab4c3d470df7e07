package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"todocli/internal/apierr"
	"todocli/internal/commands"
	"todocli/internal/config"
	"todocli/internal/exitcode"
	"todocli/internal/service"
	"todocli/internal/session"
	"todocli/internal/testutil"
)

const testEmail = "ada@example.com"

// harness holds the state shared by one command invocation.
type harness struct {
	svc   *testutil.FakeService
	sess  *session.Session
	in    string
	quiet bool
}

// newHarness returns a harness logged in as testEmail.
func newHarness(t *testing.T) *harness {
	t.Helper()
	svc := testutil.NewFakeService()
	svc.AddUser(service.Profile{Name: "Ada", Number: "5550100", Email: testEmail}, "pw")
	sess := session.New(session.NewMemoryStore(), session.WithLogger(zap.NewNop()))
	if err := sess.Establish(context.Background(), testutil.Token(testEmail)); err != nil {
		t.Fatalf("establish session: %v", err)
	}
	return &harness{svc: svc, sess: sess}
}

// runCommand parses argv with the command's flags and runs it.
func (h *harness) runCommand(t *testing.T, cmd commands.Command, argv ...string) (stdout, stderr string, code int) {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Quiet = h.quiet

	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(argv); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	env := &commands.Env{
		Config:  cfg,
		Service: h.svc,
		Session: h.sess,
		Log:     zap.NewNop(),
		In:      strings.NewReader(h.in),
		Out:     &outBuf,
		ErrOut:  &errBuf,
	}
	code = cmd.Run(context.Background(), env, fs.Args())
	return outBuf.String(), errBuf.String(), code
}

func TestVersionCmd(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.runCommand(t, &commands.VersionCmd{})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := "todo " + commands.Version + "\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestListCmd_Empty(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.runCommand(t, &commands.ListCmd{})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", out)
	}
}

func TestListCmd_EmptyQuiet(t *testing.T) {
	h := newHarness(t)
	h.quiet = true
	out, _, _ := h.runCommand(t, &commands.ListCmd{})

	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestListCmd_Partitioned(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Pay rent", true)
	h.svc.AddTask("Write report", false)
	h.svc.AddTask("Call bank", true)
	h.svc.AddTask("Buy milk", false)

	out, _, code := h.runCommand(t, &commands.ListCmd{})
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := "   1  [ ] Write report\n" +
		"   2  [ ] Buy milk\n" +
		"------------\n" +
		"   3  [x] Pay rent\n" +
		"   4  [x] Call bank\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestListCmd_OpenOnly(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Pay rent", true)
	h.svc.AddTask("Buy milk", false)

	out, _, _ := h.runCommand(t, &commands.ListCmd{}, "--open")
	if out != "   1  [ ] Buy milk\n" {
		t.Errorf("expected only the open task, got %q", out)
	}
}

func TestListCmd_UnexpectedArgument(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.runCommand(t, &commands.ListCmd{}, "extra")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errOut != "error: unexpected argument: extra\n" {
		t.Errorf("unexpected stderr: %q", errOut)
	}
	if h.svc.TotalCalls() != 0 {
		t.Errorf("expected no service calls, got %d", h.svc.TotalCalls())
	}
}

func TestListCmd_NotLoggedIn(t *testing.T) {
	h := newHarness(t)
	if err := h.sess.Clear(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, errOut, code := h.runCommand(t, &commands.ListCmd{})
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	want := "error: " + apierr.AuthMessage + "\n"
	if errOut != want {
		t.Errorf("expected %q, got %q", want, errOut)
	}
	if h.svc.TotalCalls() != 0 {
		t.Errorf("expected no service calls, got %d", h.svc.TotalCalls())
	}
}

func TestListCmd_ErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"remote", apierr.Remote(500, "Database unavailable"), exitcode.BackendError, "error: Database unavailable\n"},
		{"transport", apierr.Transport(context.DeadlineExceeded), exitcode.BackendError, "error: " + apierr.GenericMessage + "\n"},
		{"auth", apierr.Auth(errors.New("token expired")), exitcode.AuthError, "error: " + apierr.AuthMessage + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.svc.ListTasksErr = tt.err

			_, errOut, code := h.runCommand(t, &commands.ListCmd{})
			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if errOut != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, errOut)
			}
		})
	}
}

func TestAddCmd(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.runCommand(t, &commands.AddCmd{}, "-d", "oat", "Buy", "milk")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", out)
	}
	stored := h.svc.StoredTasks()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored task, got %d", len(stored))
	}
	if stored[0].Title != "Buy milk" || stored[0].Description != "oat" || stored[0].Completed {
		t.Errorf("unexpected stored task: %+v", stored[0])
	}
	if h.svc.Calls("ListTasks") != 0 {
		t.Errorf("expected add not to list tasks, got %d calls", h.svc.Calls("ListTasks"))
	}
}

func TestAddCmd_BlankTitle(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.runCommand(t, &commands.AddCmd{}, "   ")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errOut != "error: Task title is required.\n" {
		t.Errorf("unexpected stderr: %q", errOut)
	}
	if h.svc.TotalCalls() != 0 {
		t.Errorf("expected no service calls, got %d", h.svc.TotalCalls())
	}
}

func TestDoneCmd(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)
	h.svc.AddTask("B", false)

	_, _, code := h.runCommand(t, &commands.DoneCmd{}, "1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	stored := h.svc.StoredTasks()
	if !stored[0].Completed || stored[1].Completed {
		t.Errorf("expected only A completed, got %+v", stored)
	}

	// A is now last in the printed list; toggling position 2 reopens it.
	_, _, code = h.runCommand(t, &commands.DoneCmd{}, "2")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if h.svc.StoredTasks()[0].Completed {
		t.Error("expected A reopened")
	}
}

func TestDoneCmd_ByID(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)
	b := h.svc.AddTask("B", false)

	_, _, code := h.runCommand(t, &commands.DoneCmd{}, "#2")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, task := range h.svc.StoredTasks() {
		if task.Completed != (task.ID == b.ID) {
			t.Errorf("task %d: unexpected completed=%v", task.ID, task.Completed)
		}
	}
}

func TestDoneCmd_BadRefs(t *testing.T) {
	tests := []struct {
		arg       string
		wantErr   string
		wantCalls int
	}{
		{"x", "error: invalid task reference: x\n", 0},
		{"9", "error: task number out of range: 9\n", 1},
		{"#9", "error: task not found: #9\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			h := newHarness(t)
			h.svc.AddTask("A", false)

			_, errOut, code := h.runCommand(t, &commands.DoneCmd{}, tt.arg)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if errOut != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, errOut)
			}
			if h.svc.TotalCalls() != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, h.svc.TotalCalls())
			}
			if h.svc.Calls("UpdateTask") != 0 {
				t.Error("expected no update")
			}
		})
	}
}

func TestEditCmd(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Old", true)

	_, _, code := h.runCommand(t, &commands.EditCmd{}, "--title", "New", "1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	got := h.svc.StoredTasks()[0]
	if got.Title != "New" {
		t.Errorf("expected %q, got %q", "New", got.Title)
	}
	if !got.Completed {
		t.Error("expected completion to be preserved")
	}
}

func TestEditCmd_DescriptionOnly(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Keep", false)

	_, _, code := h.runCommand(t, &commands.EditCmd{}, "-d", "details", "1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	got := h.svc.StoredTasks()[0]
	if got.Title != "Keep" || got.Description != "details" {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestEditCmd_NothingToChange(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)

	_, errOut, code := h.runCommand(t, &commands.EditCmd{}, "1")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(errOut, "nothing to change") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
	if h.svc.TotalCalls() != 0 {
		t.Errorf("expected no service calls, got %d", h.svc.TotalCalls())
	}
}

func TestEditCmd_BlankTitle(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)

	_, errOut, code := h.runCommand(t, &commands.EditCmd{}, "--title", " ", "1")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errOut != "error: Title cannot be empty.\n" {
		t.Errorf("unexpected stderr: %q", errOut)
	}
	if h.svc.Calls("UpdateTask") != 0 {
		t.Error("expected no update")
	}
}

func TestRmCmd_Yes(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)

	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	out, _, code := h.runCommand(t, cmd, "1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", out)
	}
	if len(h.svc.StoredTasks()) != 0 {
		t.Error("expected task deleted")
	}
}

func TestRmCmd_YesFlag(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)

	out, errOut, code := h.runCommand(t, &commands.RmCmd{}, "--yes", "1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", out)
	}
	if strings.Contains(errOut, "[y/N]") {
		t.Errorf("expected no prompt, got %q", errOut)
	}
	if len(h.svc.StoredTasks()) != 0 {
		t.Error("expected task deleted")
	}
}

func TestRmCmd_Confirm(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)
	h.in = "y\n"

	_, errOut, code := h.runCommand(t, &commands.RmCmd{}, "1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(errOut, `Delete "A"? [y/N] `) {
		t.Errorf("expected confirmation prompt, got %q", errOut)
	}
	if len(h.svc.StoredTasks()) != 0 {
		t.Error("expected task deleted")
	}
}

func TestRmCmd_Declined(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)
	h.in = "n\n"

	out, _, code := h.runCommand(t, &commands.RmCmd{}, "1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "cancelled\n" {
		t.Errorf("expected %q, got %q", "cancelled\n", out)
	}
	if h.svc.Calls("DeleteTask") != 0 {
		t.Error("expected no delete request")
	}
	if len(h.svc.StoredTasks()) != 1 {
		t.Error("expected task kept")
	}
}

func TestRmCmd_Failure(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)
	h.svc.DeleteTaskErr = apierr.Transport(context.DeadlineExceeded)

	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	_, errOut, code := h.runCommand(t, cmd, "1")
	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	want := "error: " + apierr.GenericMessage + "\n"
	if errOut != want {
		t.Errorf("expected %q, got %q", want, errOut)
	}
	if len(h.svc.StoredTasks()) != 1 {
		t.Error("expected task kept")
	}
}

func TestShowCmd(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Buy milk", false)

	out, _, code := h.runCommand(t, &commands.ShowCmd{}, "#1")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := "#1  Buy milk\n" +
		"status:      open\n" +
		"description: -\n" +
		"created:     -\n" +
		"updated:     -\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestProfileCmd(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.runCommand(t, &commands.ProfileCmd{})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := "Name:   Ada\nEmail:  ada@example.com\nNumber: 5550100\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestProfileEditCmd_Name(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.runCommand(t, &commands.ProfileEditCmd{}, "--name", "Ada L.")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "Profile updated successfully!\n" {
		t.Errorf("unexpected output: %q", out)
	}
	p, ok := h.svc.Profile(testEmail)
	if !ok || p.Name != "Ada L." || p.Number != "5550100" {
		t.Errorf("unexpected stored profile: %+v", p)
	}
	if _, ok := h.sess.Current(); !ok {
		t.Error("expected session kept")
	}
}

func TestProfileEditCmd_EmailEndsSession(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.runCommand(t, &commands.ProfileEditCmd{}, "--email", "ada@new.example")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(out, "Please log in with your new email.") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, ok := h.sess.Current(); ok {
		t.Error("expected session cleared")
	}
	if _, ok := h.svc.Profile("ada@new.example"); !ok {
		t.Error("expected profile stored under the new email")
	}
}

func TestProfileEditCmd_NothingToChange(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.runCommand(t, &commands.ProfileEditCmd{})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(errOut, "nothing to change") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
}

func TestProfileDeleteCmd(t *testing.T) {
	h := newHarness(t)
	cmd := &commands.ProfileDeleteCmd{}
	cmd.SetYes(true)

	out, _, code := h.runCommand(t, cmd)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", out)
	}
	if _, ok := h.svc.Profile(testEmail); ok {
		t.Error("expected account deleted")
	}
	if _, ok := h.sess.Current(); ok {
		t.Error("expected session cleared")
	}
}

func TestProfileDeleteCmd_YesFlag(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.runCommand(t, &commands.ProfileDeleteCmd{}, "-y")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", out)
	}
	if _, ok := h.svc.Profile(testEmail); ok {
		t.Error("expected account deleted")
	}
}

func TestProfileDeleteCmd_Failure(t *testing.T) {
	h := newHarness(t)
	h.svc.DeleteProfileErr = apierr.Remote(500, "Could not delete account")
	cmd := &commands.ProfileDeleteCmd{}
	cmd.SetYes(true)

	_, errOut, code := h.runCommand(t, cmd)
	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if errOut != "error: Could not delete account\n" {
		t.Errorf("unexpected stderr: %q", errOut)
	}
	if _, ok := h.sess.Current(); !ok {
		t.Error("expected session kept")
	}
}

func TestProfileDeleteCmd_Declined(t *testing.T) {
	h := newHarness(t)
	h.in = "no\n"

	out, errOut, code := h.runCommand(t, &commands.ProfileDeleteCmd{})
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(errOut, "Delete account ada@example.com? This cannot be undone.") {
		t.Errorf("expected confirmation prompt, got %q", errOut)
	}
	if out != "cancelled\n" {
		t.Errorf("expected %q, got %q", "cancelled\n", out)
	}
	if h.svc.Calls("DeleteProfile") != 0 {
		t.Error("expected no delete request")
	}
}

func TestStatusCmd(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("A", false)
	h.svc.AddTask("B", true)
	h.svc.AddTask("C", false)

	out, _, code := h.runCommand(t, &commands.StatusCmd{})
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := "user:      Ada <ada@example.com>\n" +
		"open:      2\n" +
		"completed: 1\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestStatusCmd_Failure(t *testing.T) {
	h := newHarness(t)
	h.svc.ListTasksErr = apierr.Remote(500, "down")

	_, errOut, code := h.runCommand(t, &commands.StatusCmd{})
	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if errOut != "error: down\n" {
		t.Errorf("unexpected stderr: %q", errOut)
	}
}

func TestRegisterVerifyResend(t *testing.T) {
	h := newHarness(t)
	h.in = "secret\n"

	out, _, code := h.runCommand(t, &commands.RegisterCmd{},
		"--name", "Grace", "--email", "grace@example.com", "--number", "5550199")
	if code != exitcode.Success {
		t.Fatalf("register: expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(out, "next: todo verify grace@example.com <otp>") {
		t.Errorf("unexpected output: %q", out)
	}

	out, _, code = h.runCommand(t, &commands.ResendCmd{}, "grace@example.com")
	if code != exitcode.Success {
		t.Fatalf("resend: expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "A new OTP has been sent to your email.\n" {
		t.Errorf("unexpected output: %q", out)
	}

	_, errOut, code := h.runCommand(t, &commands.VerifyCmd{}, "grace@example.com", "000000")
	if code != exitcode.BackendError {
		t.Errorf("verify: expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if errOut != "error: Invalid OTP.\n" {
		t.Errorf("unexpected stderr: %q", errOut)
	}

	out, _, code = h.runCommand(t, &commands.VerifyCmd{}, "grace@example.com", testutil.FakeOTP)
	if code != exitcode.Success {
		t.Fatalf("verify: expected exit code %d, got %d", exitcode.Success, code)
	}
	if out != "Account verified successfully.\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRegisterCmd_MissingFields(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.runCommand(t, &commands.RegisterCmd{}, "--name", "Grace")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errOut != "error: --name and --email are required\n" {
		t.Errorf("unexpected stderr: %q", errOut)
	}
	if h.svc.TotalCalls() != 0 {
		t.Errorf("expected no service calls, got %d", h.svc.TotalCalls())
	}
}

func TestVerifyCmd_Usage(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.runCommand(t, &commands.VerifyCmd{}, "only-email")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errOut != "error: usage: todo verify <email> <otp>\n" {
		t.Errorf("unexpected stderr: %q", errOut)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"list", "ls", "add", "create", "rm", "delete", "whoami", "signup", "toggle"} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("expected command %q registered", name)
		}
	}

	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected duplicate registration error")
	}

	all := commands.DefaultRegistry.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name() >= all[i].Name() {
			t.Errorf("commands not sorted: %q before %q", all[i-1].Name(), all[i].Name())
		}
	}
}
