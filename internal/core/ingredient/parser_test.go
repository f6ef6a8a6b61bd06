package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMassVolumeShorthand(t *testing.T) {
	p := NewParser()

	line := p.Parse("500g farine")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, 500.0, *line.Quantity)
	assert.Equal(t, "g", line.Unit)
	assert.Equal(t, "farine", line.Name)

	line = p.Parse("20 cl crème liquide")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, 20.0, *line.Quantity)
	assert.Equal(t, "cl", line.Unit)
	assert.Equal(t, "crème liquide", line.Name)

	line = p.Parse("1,5 l de lait")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, 1.5, *line.Quantity)
	assert.Equal(t, "l", line.Unit)
	assert.Equal(t, "de lait", line.Name)
}

func TestParseSpoonMeasures(t *testing.T) {
	p := NewParser()

	line := p.Parse("2 cuillères à soupe d'huile")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, 2.0, *line.Quantity)
	assert.Equal(t, "cuillère à soupe", line.Unit)
	assert.Equal(t, "d'huile", line.Name)

	line = p.Parse("1 cuillère à café de sel")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, "cuillère à café", line.Unit)
	assert.Equal(t, "de sel", line.Name)

	// 縮寫形
	line = p.Parse("3 c. à s. de vinaigre")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, 3.0, *line.Quantity)
	assert.Equal(t, "cuillère à soupe", line.Unit)

	line = p.Parse("1 c. à c. de muscade")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, "cuillère à café", line.Unit)
}

func TestParseNamedMeasures(t *testing.T) {
	p := NewParser()

	line := p.Parse("2 gousses d'ail")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, 2.0, *line.Quantity)
	assert.Equal(t, "gousse", line.Unit)
	assert.Equal(t, "d'ail", line.Name)

	line = p.Parse("1 pincée de muscade")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, "pincée", line.Unit)

	line = p.Parse("4 tranches de jambon")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, "tranche", line.Unit)
	assert.Equal(t, "de jambon", line.Name)
}

func TestParseBareCount(t *testing.T) {
	p := NewParser()

	line := p.Parse("3 œufs")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, 3.0, *line.Quantity)
	assert.Equal(t, "unité", line.Unit)
	assert.Equal(t, "œufs", line.Name)
}

func TestParseFallbackToName(t *testing.T) {
	p := NewParser()

	// 無數量前綴：整行視為名稱，不回報錯誤
	line := p.Parse("sel et poivre")
	assert.Nil(t, line.Quantity)
	assert.Equal(t, "", line.Unit)
	assert.Equal(t, "sel et poivre", line.Name)

	// 範圍寫法不在支援範圍內，降級為名稱
	line = p.Parse("2-3 carottes")
	assert.Nil(t, line.Quantity)
	assert.Equal(t, "2-3 carottes", line.Name)

	line = p.Parse("   ")
	assert.Nil(t, line.Quantity)
	assert.Equal(t, "", line.Name)
}

func TestParseCaseInsensitive(t *testing.T) {
	p := NewParser()

	line := p.Parse("500G Farine")
	require.NotNil(t, line.Quantity)
	assert.Equal(t, "g", line.Unit)
	assert.Equal(t, "Farine", line.Name)
}

func TestParsedLineMentionDefaults(t *testing.T) {
	p := NewParser()

	// 數量缺漏視為 1 unité
	m := p.Parse("sel et poivre").Mention("r1", "Carbonara")
	assert.Equal(t, 1.0, m.Quantity)
	assert.Equal(t, "unité", m.Unit)
	assert.Equal(t, "sel et poivre", m.RawName)
	assert.Equal(t, "r1", m.SourceID)

	m = p.Parse("400g spaghetti").Mention("r2", "Bolognaise")
	assert.Equal(t, 400.0, m.Quantity)
	assert.Equal(t, "g", m.Unit)
}
