package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantCode    string
		wantComment string
	}{
		{
			name:     "no marker",
			line:     "def add(*, arg_1, arg_2):",
			wantCode: "def add(*, arg_1, arg_2):",
		},
		{
			name:     "hash inside double quotes",
			line:     `my_string = "hello #world"`,
			wantCode: `my_string = "hello #world"`,
		},
		{
			name:     "hash inside single quotes",
			line:     `x = '#' + y`,
			wantCode: `x = '#' + y`,
		},
		{
			name:        "trailing comment",
			line:        `add(arg_1=1, arg_2="s") # inline comment.`,
			wantCode:    `add(arg_1=1, arg_2="s") `,
			wantComment: "# inline comment.",
		},
		{
			name:        "comment after literal containing hash",
			line:        `url = "http://x/#frag"  # type: ignore[arg-type]`,
			wantCode:    `url = "http://x/#frag"  `,
			wantComment: "# type: ignore[arg-type]",
		},
		{
			name:        "escaped quote does not close literal",
			line:        `s = "a \" # b"  # real`,
			wantCode:    `s = "a \" # b"  `,
			wantComment: "# real",
		},
		{
			name:        "raw string with escaped quote",
			line:        `p = r'\' #'  # pylint: disable=x`,
			wantCode:    `p = r'\' #'  `,
			wantComment: "# pylint: disable=x",
		},
		{
			name:        "triple quoted on one line",
			line:        `doc = """a # b"""  # note`,
			wantCode:    `doc = """a # b"""  `,
			wantComment: "# note",
		},
		{
			name:        "empty string before comment",
			line:        `x = ""  # empty`,
			wantCode:    `x = ""  `,
			wantComment: "# empty",
		},
		{
			name:        "quote inside comment is ignored",
			line:        `y = 1  # don't`,
			wantCode:    `y = 1  `,
			wantComment: "# don't",
		},
		{
			name:        "hash inside comment",
			line:        `z = 2  # a # b`,
			wantCode:    `z = 2  `,
			wantComment: "# a # b",
		},
		{
			name:        "full line comment",
			line:        "# just a comment",
			wantComment: "# just a comment",
		},
		{
			name:        "unicode before comment",
			line:        `name = "héllo"  # ünï`,
			wantCode:    `name = "héllo"  `,
			wantComment: "# ünï",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := Split(tt.line)
			require.NoError(t, err)
			assert.Nil(t, parts.Warning)
			assert.Equal(t, tt.wantCode, parts.Code)
			assert.Equal(t, tt.wantComment, parts.Comment)
			assert.Equal(t, tt.line, parts.Code+parts.Comment)
		})
	}
}

func TestSplitUnterminatedLiteral(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantColumn int
	}{
		{name: "single quote", line: `x = 'abc # def`, wantColumn: 4},
		{name: "opening docstring", line: `    """Summary # with hash`, wantColumn: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := Split(tt.line)
			require.NoError(t, err)
			require.NotNil(t, parts.Warning)
			assert.Equal(t, tt.line, parts.Code)
			assert.Empty(t, parts.Comment)
			assert.Equal(t, tt.wantColumn, parts.Warning.Column)
		})
	}
}

func TestSplitMultipleCommentRegions(t *testing.T) {
	line := "a = 1  # first\rb = 2  # second"

	_, err := Split(line)

	var malformed *MalformedLineError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Comments)
}

func TestSplitCarriageReturnWithSingleComment(t *testing.T) {
	line := "a = 1\rb = 2  # only"

	parts, err := Split(line)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\rb = 2  ", parts.Code)
	assert.Equal(t, "# only", parts.Comment)
}
