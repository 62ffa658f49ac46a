package cmd

import (
	"context"
	"testing"

	"github.com/mouse-blink/pyintroduce/internal/domain"
	domainmocks "github.com/mouse-blink/pyintroduce/internal/domain/mocks"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIntroduceCmd(t *testing.T) {
	t.Run("passes position range and options", func(t *testing.T) {
		mockWorkflow := domainmocks.NewMockWorkflow(t)
		cmd, _ := newTestRoot(t, mockWorkflow)

		var got domain.IntroduceArgs

		mockWorkflow.EXPECT().Introduce(mock.Anything, mock.Anything).
			Run(func(_ context.Context, args domain.IntroduceArgs) { got = args }).
			Return(nil)

		cmd.SetArgs([]string{
			"introduce", "app.py", "--at", "2:5", "--to", "2:9",
			"--name", "total", "--replace", "all", "--init-place", "constructor", "--dry-run",
		})
		require.NoError(t, cmd.Execute())

		assert.Equal(t, m.Path("app.py"), got.Path)
		assert.Equal(t, m.Position{Line: 2, Column: 5}, got.At)
		require.NotNil(t, got.To)
		assert.Equal(t, m.Position{Line: 2, Column: 9}, *got.To)
		assert.True(t, got.DryRun)
		assert.Equal(t, "total", got.Options.Name)
		require.NotNil(t, got.Options.ReplaceAll)
		assert.True(t, *got.Options.ReplaceAll)
		assert.Equal(t, m.InitConstructor, got.Options.InitPlace)
		assert.False(t, got.Options.Dialog)
	})

	t.Run("defaults come from config", func(t *testing.T) {
		mockWorkflow := domainmocks.NewMockWorkflow(t)
		cmd, _ := newTestRoot(t, mockWorkflow)

		mockWorkflow.On("Introduce", mock.Anything, mock.MatchedBy(func(args domain.IntroduceArgs) bool {
			return args.To == nil &&
				args.Options.ReplaceAll == nil &&
				args.Options.InitPlace == m.InitSameScope &&
				!args.Options.Dialog &&
				!args.DryRun
		})).Return(nil)

		cmd.SetArgs([]string{"introduce", "app.py", "--at", "1:1"})
		require.NoError(t, cmd.Execute())
	})

	t.Run("dialog flag", func(t *testing.T) {
		mockWorkflow := domainmocks.NewMockWorkflow(t)
		cmd, _ := newTestRoot(t, mockWorkflow)

		mockWorkflow.On("Introduce", mock.Anything, mock.MatchedBy(func(args domain.IntroduceArgs) bool {
			return args.Options.Dialog && args.Options.AutoChoose
		})).Return(nil)

		cmd.SetArgs([]string{"introduce", "app.py", "--at", "1:1", "--dialog", "--auto-choose"})
		require.NoError(t, cmd.Execute())
	})

	t.Run("rejects bad flags", func(t *testing.T) {
		for _, args := range [][]string{
			{"introduce", "app.py"},
			{"introduce", "app.py", "--at", "x"},
			{"introduce", "app.py", "--at", "1:1", "--to", "0:0"},
			{"introduce", "app.py", "--at", "1:1", "--replace", "some"},
			{"introduce", "app.py", "--at", "1:1", "--init-place", "module"},
			{"introduce", "--at", "1:1"},
		} {
			cmd, _ := newTestRoot(t, domainmocks.NewMockWorkflow(t))

			cmd.SetArgs(args)
			assert.Error(t, cmd.Execute(), "args %v", args)
		}
	})

	t.Run("workflow errors are returned", func(t *testing.T) {
		mockWorkflow := domainmocks.NewMockWorkflow(t)
		cmd, _ := newTestRoot(t, mockWorkflow)

		mockWorkflow.EXPECT().Introduce(mock.Anything, mock.Anything).Return(domain.ErrNoValidExpression)

		cmd.SetArgs([]string{"introduce", "app.py", "--at", "1:1"})
		assert.ErrorIs(t, cmd.Execute(), domain.ErrNoValidExpression)
	})
}

func TestSuggestCmdFromIntroduce(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	cmd, _ := newTestRoot(t, mockWorkflow)

	mockWorkflow.On("Suggest", mock.Anything, domain.SuggestArgs{
		Path: "app.py",
		At:   m.Position{Line: 4, Column: 2},
	}).Return(nil)

	cmd.SetArgs([]string{"suggest", "app.py", "--at", "4:2"})
	require.NoError(t, cmd.Execute())
}
