package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/restview/internal/criteria"
)

func TestParse_OperatorExtraction(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Triple
	}{
		{"equals", "price=10", Triple{"price", criteria.EQ, "10"}},
		{"not equals", "price<>10", Triple{"price", criteria.NEQ, "10"}},
		{"greater", "price>10", Triple{"price", criteria.GT, "10"}},
		{"greater or equal", "price>=10", Triple{"price", criteria.GTE, "10"}},
		{"less", "price<10", Triple{"price", criteria.LT, "10"}},
		{"less or equal", "price<=10", Triple{"price", criteria.LTE, "10"}},
		{"encoded operator", "price%3E%3D10", Triple{"price", criteria.GTE, "10"}},
		{"double equals", "price==10", Triple{"price", criteria.EQ, "=10"}},
		{"reversed greater or equal", "price=>10", Triple{"price", criteria.EQ, ">10"}},
		{"double less", "price<<10", Triple{"price", criteria.LT, "<10"}},
		{"greater then less", "price><10", Triple{"price", criteria.GT, "<10"}},
		{"two-character operator without value", "price>=&", Triple{"price", criteria.GT, "="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.query, []string{"price"})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestParse_WhitelistContainment(t *testing.T) {
	got, err := Parse("price>=10&secret=1&name=bob&page=2", []string{"price", "name"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	for _, tr := range got {
		assert.Contains(t, []string{"price", "name"}, tr.Field)
	}
	assert.Equal(t, "price", got[0].Field)
	assert.Equal(t, "name", got[1].Field)
}

func TestParse_WhitelistContainmentTable(t *testing.T) {
	whitelist := []string{"price", "name", "created-at"}
	queries := []string{
		"price>=10&secret=1&name=bob",
		"PRICE=1&Name=x&pricex=3&xprice=4",
		"a=1&b<2&c>3&price<>4",
		"secret=price&name2=bob",
		"price%3D1%26name%3Dbob%26admin%3D1",
		"na%6De=bob&pri+ce=1",
		"created-at>=2024-01-01&created_at=2024",
		"page=2&limit=10&fields=id,name&locale=de-DE",
		"===&&&<<>>price",
		"price=1&price=2&price=3&id=4",
	}

	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			got, err := Parse(query, whitelist)
			require.NoError(t, err)
			for _, tr := range got {
				assert.Contains(t, whitelist, tr.Field)
			}
		})
	}
}

func FuzzParse_WhitelistContainment(f *testing.F) {
	for _, seed := range []string{
		"",
		"price>=10&secret=1&name=bob",
		"price==10&name<>%20x",
		"na%6De=bob&price%3E5",
		"%zz&&price<<1&id=2",
	} {
		f.Add(seed)
	}
	whitelist := []string{"price", "name"}

	f.Fuzz(func(t *testing.T, query string) {
		got, err := Parse(query, whitelist)
		if err != nil {
			require.True(t, IsParseError(err))
			return
		}
		for _, tr := range got {
			assert.Contains(t, whitelist, tr.Field)
			assert.True(t, tr.Operator.Valid())
			assert.NotEmpty(t, tr.Value)
		}
	})
}

func TestParse_EmptyWhitelistDropsEverything(t *testing.T) {
	got, err := Parse("price>=10&name=bob", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParse_RepeatedFieldKeepsEveryOccurrence(t *testing.T) {
	got, err := Parse("price>10&price<100", []string{"price"})
	require.NoError(t, err)

	assert.Equal(t, []Triple{
		{"price", criteria.GT, "10"},
		{"price", criteria.LT, "100"},
	}, got)
}

func TestParse_Decoding(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"percent space", "name=John%20Doe", "John Doe"},
		{"plus as space", "name=John+Doe", "John Doe"},
		{"encoded plus", "name=a%2Bb", "a b"},
		{"invalid escape kept", "name=100%", "100%"},
		{"bad hex kept", "name=%zz", "%zz"},
		{"utf-8", "name=%C3%A9t%C3%A9", "été"},
		{"value keeps equals", "name=a=b", "a=b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.query, []string{"name"})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Value)
		})
	}
}

func TestParse_EncodedAmpersandSplitsValue(t *testing.T) {
	// The whole query string is decoded before scanning.
	got, err := Parse("name=a%26b", []string{"name"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Value)
}

func TestParse_HyphenatedField(t *testing.T) {
	got, err := Parse("created-at>2024", []string{"created-at"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "created-at", got[0].Field)
}

func TestParse_EmptyAndMalformed(t *testing.T) {
	for _, query := range []string{"", "&", "&&&==", "=10", "price=", "price", "%%%"} {
		t.Run(query, func(t *testing.T) {
			got, err := Parse(query, []string{"price"})
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestParse_EmptyValueSkipsOnlyThatTriple(t *testing.T) {
	got, err := Parse("price=&name=bob", []string{"price", "name"})
	require.NoError(t, err)
	assert.Equal(t, []Triple{{"name", criteria.EQ, "bob"}}, got)
}

func TestTriple_String(t *testing.T) {
	assert.Equal(t, "price>=10", Triple{"price", criteria.GTE, "10"}.String())
}

func TestParseError_Unwrap(t *testing.T) {
	cause := assert.AnError
	err := error(&ParseError{Query: "x", cause: cause})

	assert.True(t, IsParseError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `"x"`)
}
