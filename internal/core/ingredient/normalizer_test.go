package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{
		"Tomates",
		"spaghetti",
		"Crème fraîche",
		"œufs",
		"Lait demi-écrémé",
		"pommes de terre",
		"poivron rouge grillé",
		"  Huile d'olive  ",
		"",
		// 名稱含多個別名時，一次正規化就得換齊
		"tomates et oignons",
		"bœuf haché oignons",
		"spaghettis aux tomates cerises",
		"tomates tomates",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		assert.Equal(t, once, twice, "normalize(normalize(%q)) 應與 normalize(%q) 相同", in, in)
	}
}

func TestNormalizeAliasEquivalence(t *testing.T) {
	n := NewNormalizer()

	// 別名替換後等值
	assert.Equal(t, n.Normalize("pâtes"), n.Normalize("spaghetti"))
	assert.Equal(t, n.Normalize("pâtes"), n.Normalize("tagliatelles"))
	assert.Equal(t, "tomate", n.Normalize("Tomates"))
	assert.Equal(t, "oeuf", n.Normalize("œufs"))
	assert.Equal(t, "lardons", n.Normalize("lardons fumés"))
	assert.Equal(t, "lait", n.Normalize("Lait entier"))
	assert.Equal(t, "oignon", n.Normalize("échalote"))

	// 多個別名同時出現，逐條規則全部換到位
	assert.Equal(t, "tomate et oignon", n.Normalize("Tomates et oignons"))
	assert.Equal(t, "boeuf oignon", n.Normalize("bœuf haché oignons"))
	assert.Equal(t, "tomate tomate", n.Normalize("tomates, tomates"))
}

func TestNormalizeAccentsAndPunctuation(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "creme", n.Normalize("Crème-Fraîche!"))
	assert.Equal(t, "huile d olive", n.Normalize("Huile d'olive"))
	assert.Equal(t, "pomme de terre", n.Normalize("  Pommes   de   Terre  "))
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "", n.Normalize(""))
	assert.Equal(t, "", n.Normalize("   "))
	// 全標點的名稱正規化後也是空字串
	assert.Equal(t, "", n.Normalize("!!!"))
}

func TestNormalizeUnknownNameFallsBackToExact(t *testing.T) {
	n := NewNormalizer()

	// 表外名稱只做基礎正規化，不誤併
	assert.Equal(t, "curcuma", n.Normalize("Curcuma"))
	assert.NotEqual(t, n.Normalize("curcuma"), n.Normalize("cumin"))
}

func TestSimilar(t *testing.T) {
	n := NewNormalizer()

	// 包含關係（長度 > 3）
	assert.True(t, n.Similar("poivron", "poivrons"))
	// 編輯距離相似度達門檻
	assert.True(t, n.Similar("mozzarella", "mozzarela"))
	// 短字串不因包含關係誤併
	assert.False(t, n.Similar("ail", "aile de poulet"))
	assert.False(t, n.Similar("tomate", "carotte"))
	assert.False(t, n.Similar("", "tomate"))
}

func TestBestMatchIsDeterministic(t *testing.T) {
	n := NewNormalizer()

	candidates := []string{"courgette", "poivron", "poivrons verts"}
	match, ok := n.BestMatch("poivron vert", candidates)
	assert.True(t, ok)
	// 依候選順序取第一個近似者
	assert.Equal(t, "poivron", match)

	_, ok = n.BestMatch("citron", candidates)
	assert.False(t, ok)
}

func TestNormalizerWithExtraAliases(t *testing.T) {
	n := NewNormalizerWithAliases([]aliasRule{{"coriandre fraiche", "coriandre"}})

	assert.Equal(t, "coriandre", n.Normalize("Coriandre fraîche"))
	// 預設表仍然有效
	assert.Equal(t, "tomate", n.Normalize("tomates"))
}
