package shell_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/lucifer/internal/adapters/shell"
	"go.trai.ch/lucifer/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogWriter(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		logger.EXPECT().Info("  ok  \tgithub.com/x/lib\t0.01s"),
		logger.EXPECT().Info("  --- FAIL: TestUsers"),
		logger.EXPECT().Info("  trailing"),
	)

	w := shell.NewLogWriter(logger, "  ")
	_, err := w.Write([]byte("ok  \tgithub.com/x/lib\t0.01s\r\n--- FAIL: "))
	require.NoError(t, err)
	_, err = w.Write([]byte("TestUsers\r\ntrailing"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
