package main

import (
	"context"
	"testing"

	"github.com/argosnews/argosctl/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploadIconClient struct {
	sourceID, path string
	src            string
	err            error
}

func (f *fakeUploadIconClient) UploadIcon(_ context.Context, sourceID, path string) (string, error) {
	f.sourceID, f.path = sourceID, path
	return f.src, f.err
}

func TestNewUploadIconCmdPanicsWhenClientIsNil(t *testing.T) {
	assertPanicsWithNilClient(t, func() { NewUploadIconCmd(nil) })
}

func TestUploadIconCmd(t *testing.T) {
	client := &fakeUploadIconClient{src: "/static/icons/7/logo.png"}

	out, _, err := runCmd(t, NewUploadIconCmd(client), "7", "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "7", client.sourceID)
	assert.Equal(t, "logo.png", client.path)
	assert.Contains(t, out, "source 7 icon: /static/icons/7/logo.png")
}

func TestUploadIconCmdError(t *testing.T) {
	client := &fakeUploadIconClient{err: upload.ErrFileTooLarge}

	_, _, err := runCmd(t, NewUploadIconCmd(client), "7", "huge.png")
	require.ErrorIs(t, err, upload.ErrFileTooLarge)
}

func TestUploadIconCmdArgs(t *testing.T) {
	_, _, err := runCmd(t, NewUploadIconCmd(&fakeUploadIconClient{}), "7")
	require.Error(t, err)
}
