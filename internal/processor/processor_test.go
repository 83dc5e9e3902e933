package processor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/neoanki/internal/backup"
	"codeberg.org/snonux/neoanki/internal/cli"
	vocab "codeberg.org/snonux/neoanki/internal/table"
	"codeberg.org/snonux/neoanki/internal/testutil"
	"codeberg.org/snonux/neoanki/internal/validate"
)

type fakeLister struct {
	err error
}

func (f fakeLister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "Chat/Translation Models:\n  gpt-4o-mini (default)\n")
	return err
}

func newTestProcessor(t *testing.T, store Store, flags *cli.Flags, opts ...Option) (*Processor, *bytes.Buffer) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	if flags == nil {
		flags = cli.NewFlags()
	}
	var out bytes.Buffer
	opts = append([]Option{
		WithStore(store),
		WithLogger(testutil.NewTestLogger()),
		WithOutput(&out),
		WithModelLister(fakeLister{}),
	}, opts...)

	p, err := NewProcessor(flags, opts...)
	require.NoError(t, err)
	return p, &out
}

func loaded(t *testing.T, store *backup.Store) vocab.Set {
	t.Helper()
	set, recovered := store.Load()
	require.False(t, recovered)
	return set
}

func TestNewProcessor(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	primary := filepath.Join(t.TempDir(), "words.json")
	viper.Set("store.path", primary)

	p, err := NewProcessor(cli.NewFlags(), WithOutput(io.Discard))
	require.NoError(t, err)

	store, ok := p.store.(*backup.Store)
	require.True(t, ok, "expected a backup store")
	assert.Equal(t, primary, store.Paths().Primary)
	assert.Equal(t, primary+".bak", store.Paths().Secondary)
	assert.NotNil(t, p.newTranslator)
	assert.NotNil(t, p.lister)
}

func TestList(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	p, out := newTestProcessor(t, store, nil)

	require.NoError(t, p.List())

	text := out.String()
	assert.Contains(t, text, "Animals")
	assert.Contains(t, text, "Greetings")
	assert.Contains(t, text, "dog (pies), cat (kot), horse")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Animals")), bytes.Index(out.Bytes(), []byte("Greetings")))
}

func TestList_Empty(t *testing.T) {
	store, _ := testutil.NewMemStore(t, nil)
	p, out := newTestProcessor(t, store, nil)

	require.NoError(t, p.List())
	assert.Equal(t, "No saved tables.\n", out.String())
}

func TestShow(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	p, out := newTestProcessor(t, store, nil)

	require.NoError(t, p.Show("Animals"))
	assert.Contains(t, out.String(), "1. dog (pies)")
	assert.Contains(t, out.String(), "3. horse")

	err := p.Show("Missing")
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Contains(t, err.Error(), "Missing")
}

func TestImport_Text(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	p, out := newTestProcessor(t, store, nil)

	file := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, file, []byte("red|czerwony, green\nblue|niebieski\n"))

	require.NoError(t, p.Import("Colors", file))
	assert.Contains(t, out.String(), `Imported 3 rows into "Colors"`)

	set := loaded(t, store)
	assert.Equal(t, vocab.Table{
		{Word: "red", Translation: "czerwony"},
		{Word: "green"},
		{Word: "blue", Translation: "niebieski"},
	}, set["Colors"])
	assert.Len(t, set, 3)
}

func TestImport_Existing(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	file := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, file, []byte("bird|ptak"))

	p, _ := newTestProcessor(t, store, nil)
	err := p.Import("Animals", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Len(t, loaded(t, store)["Animals"], 3)

	flags := cli.NewFlags()
	flags.Replace = true
	p, _ = newTestProcessor(t, store, flags)
	require.NoError(t, p.Import("Animals", file))
	assert.Equal(t, vocab.Table{{Word: "bird", Translation: "ptak"}}, loaded(t, store)["Animals"])
}

func TestImport_EmptyFileAndName(t *testing.T) {
	store, _ := testutil.NewMemStore(t, nil)
	p, _ := newTestProcessor(t, store, nil)

	file := filepath.Join(t.TempDir(), "empty.txt")
	testutil.CreateTestFile(t, file, []byte(" , \n"))

	assert.Error(t, p.Import("Empty", file))
	assert.Error(t, p.Import("  ", file))
	assert.Empty(t, loaded(t, store))
}

func TestImport_JSON(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	flags := cli.NewFlags()
	flags.JSON = true
	p, out := newTestProcessor(t, store, flags)

	file := filepath.Join(t.TempDir(), "colors.json")
	testutil.CreateTestFile(t, file, []byte(`[["red","czerwony"],["green",""],["blue","niebieski"]]`))

	require.NoError(t, p.Import("Colors", file))
	assert.Contains(t, out.String(), `Imported 3 rows into "Colors"`)

	set := loaded(t, store)
	assert.Equal(t, vocab.Table{
		{Word: "red", Translation: "czerwony"},
		{Word: "green"},
		{Word: "blue", Translation: "niebieski"},
	}, set["Colors"])
	assert.Equal(t, testutil.SampleSet()["Animals"], set["Animals"])
}

func TestImport_JSONRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{name: "bare strings", content: `["red", "green"]`, invalid: true},
		{name: "three fields", content: `[["red","czerwony","x"]]`, invalid: true},
		{name: "object", content: `{"red":"czerwony"}`, invalid: true},
		{name: "not json", content: `red|czerwony`},
		{name: "invalid utf-8", content: "[[\"caf\xe9\", \"coffee\"]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, fs := testutil.NewMemStore(t, testutil.SampleSet())
			before, err := afero.ReadFile(fs, "/data/"+backup.DefaultFileName)
			require.NoError(t, err)

			flags := cli.NewFlags()
			flags.JSON = true
			p, _ := newTestProcessor(t, store, flags)

			file := filepath.Join(t.TempDir(), "bad.json")
			testutil.CreateTestFile(t, file, []byte(tt.content))

			err = p.Import("Colors", file)
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, backup.ErrInvalidStructure)
				assert.ErrorIs(t, err, validate.ErrInvalid)
			}

			after, err := afero.ReadFile(fs, "/data/"+backup.DefaultFileName)
			require.NoError(t, err)
			assert.Equal(t, before, after, "backup must not change")
		})
	}
}

func TestDelete(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	p, out := newTestProcessor(t, store, nil)

	err := p.Delete([]string{"Animals", "Missing"})
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Len(t, loaded(t, store), 2, "nothing is deleted when a name is missing")

	require.NoError(t, p.Delete([]string{"Animals"}))
	assert.Contains(t, out.String(), "Deleted from backup: Animals")
	set := loaded(t, store)
	assert.NotContains(t, set, "Animals")
	assert.Contains(t, set, "Greetings")
}

func TestDelete_SaveFailure(t *testing.T) {
	store := new(testutil.MockStore)
	store.On("Load").Return(testutil.SampleSet(), false)
	store.On("Save", mock.Anything).Return(errors.New("disk full"))

	p, out := newTestProcessor(t, store, nil)

	err := p.Delete([]string{"Animals"})
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, out.String())
	store.AssertExpectations(t)
}

func TestRename(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	p, _ := newTestProcessor(t, store, nil)

	assert.ErrorIs(t, p.Rename("Missing", "Other"), ErrTableNotFound)
	assert.Error(t, p.Rename("Animals", "Greetings"))
	assert.Error(t, p.Rename("Animals", " "))

	require.NoError(t, p.Rename("Animals", "Zoo"))
	set := loaded(t, store)
	assert.NotContains(t, set, "Animals")
	assert.Equal(t, testutil.SampleSet()["Animals"], set["Zoo"])
}

func TestExport_CSV(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	flags := cli.NewFlags()
	flags.Format = "csv"
	flags.Output = filepath.Join(t.TempDir(), "animals.csv")
	p, out := newTestProcessor(t, store, flags)

	require.NoError(t, p.Export("Animals"))
	assert.Contains(t, out.String(), "Exported 3 cards (2 translated)")
	testutil.AssertFileContains(t, flags.Output, "Word,Translation,Tags")
	testutil.AssertFileContains(t, flags.Output, "dog,pies,neoanki")
	testutil.AssertFileContains(t, flags.Output, "horse,,neoanki")
}

func TestExport_APKGDefaultName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	store, _ := testutil.NewMemStore(t, vocab.Set{"My words/1": {{Word: "dog", Translation: "pies"}}})
	p, _ := newTestProcessor(t, store, nil)

	require.NoError(t, p.Export("My words/1"))
	testutil.AssertFileExists(t, filepath.Join(dir, "My_words_1.apkg"))
}

func TestExport_Errors(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	flags := cli.NewFlags()
	flags.Format = "pdf"
	p, _ := newTestProcessor(t, store, flags)

	assert.ErrorIs(t, p.Export("Missing"), ErrTableNotFound)

	err := p.Export("Animals")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestTranslate(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	tr := new(testutil.MockTranslator)
	tr.On("Translate", mock.Anything, "horse").Return("koń", nil)

	p, out := newTestProcessor(t, store, nil, WithTranslator(tr))

	require.NoError(t, p.Translate(context.Background(), "Animals"))
	assert.Contains(t, out.String(), `Translated 1 rows of "Animals", 0 failed`)
	assert.Equal(t, vocab.Table{
		{Word: "dog", Translation: "pies"},
		{Word: "cat", Translation: "kot"},
		{Word: "horse", Translation: "koń"},
	}, loaded(t, store)["Animals"])
	tr.AssertExpectations(t)
}

func TestTranslate_NothingToDo(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	tr := new(testutil.MockTranslator)
	p, out := newTestProcessor(t, store, nil, WithTranslator(tr))

	require.NoError(t, p.Translate(context.Background(), "Greetings"))
	assert.Contains(t, out.String(), "Nothing to translate")
	tr.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything)

	assert.ErrorIs(t, p.Translate(context.Background(), "Missing"), ErrTableNotFound)
}

func TestTranslate_Failure(t *testing.T) {
	store, fs := testutil.NewMemStore(t, testutil.SampleSet())
	before, err := afero.ReadFile(fs, "/data/"+backup.DefaultFileName)
	require.NoError(t, err)

	tr := new(testutil.MockTranslator)
	tr.On("Translate", mock.Anything, "horse").Return("", errors.New("quota exceeded"))
	p, out := newTestProcessor(t, store, nil, WithTranslator(tr))

	require.NoError(t, p.Translate(context.Background(), "Animals"))
	assert.Contains(t, out.String(), "0 rows")
	assert.Contains(t, out.String(), "1 failed")

	after, err := afero.ReadFile(fs, "/data/"+backup.DefaultFileName)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTranslate_Cancelled(t *testing.T) {
	store, _ := testutil.NewMemStore(t, testutil.SampleSet())
	tr := new(testutil.MockTranslator)
	p, _ := newTestProcessor(t, store, nil, WithTranslator(tr))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Translate(ctx, "Animals"), context.Canceled)
	assert.Equal(t, testutil.SampleSet()["Animals"], loaded(t, store)["Animals"])
}

func TestModels(t *testing.T) {
	store, _ := testutil.NewMemStore(t, nil)
	p, out := newTestProcessor(t, store, nil)

	require.NoError(t, p.Models(context.Background()))
	assert.Contains(t, out.String(), "gpt-4o-mini (default)")

	wantErr := errors.New("unauthorized")
	p, _ = newTestProcessor(t, store, nil, WithModelLister(fakeLister{err: wantErr}))
	assert.ErrorIs(t, p.Models(context.Background()), wantErr)
}
