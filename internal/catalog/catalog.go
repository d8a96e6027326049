// Package catalog holds the static content pools: the inspiration image
// prompts and the guqin playlist. Both can be overridden from a TOML or YAML
// file.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Catalog groups the content pools served to the front end.
type Catalog struct {
	Prompts []string `toml:"prompts" yaml:"prompts"`
	Songs   []string `toml:"songs" yaml:"songs"`
}

// Default returns the built-in pools.
func Default() Catalog {
	return Catalog{
		Prompts: append([]string(nil), defaultPrompts...),
		Songs:   append([]string(nil), defaultSongs...),
	}
}

// Load reads an override file. An empty path yields Default. Pools missing
// from the file keep their defaults.
func Load(path string) (Catalog, error) {
	cat := Default()
	if strings.TrimSpace(path) == "" {
		return cat, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var override Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(raw), &override); err != nil {
			return Catalog{}, fmt.Errorf("decode toml catalog: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &override); err != nil {
			return Catalog{}, fmt.Errorf("decode yaml catalog: %w", err)
		}
	default:
		return Catalog{}, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}

	if prompts := compact(override.Prompts); len(prompts) > 0 {
		cat.Prompts = prompts
	}
	if songs := compact(override.Songs); len(songs) > 0 {
		cat.Songs = songs
	}
	return cat, nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var defaultPrompts = []string{
	"A macro photography shot of miniature zen garden monks raking the icing on a giant pastel macaron, warm sunlight, tilt-shift effect, high detailed, 8k, serene atmosphere",
	"A surreal miniature world where a tiny red fox is meditating on a floating bonsai tree made of crystals, galaxy stars background, soft cinematic lighting, magical realism",
	"Miniature construction workers building a bridge out of cinnamon sticks over a cup of tea, steam forming clouds, cozy warm atmosphere, photorealistic",
	"A tiny astronaut exploring a moss terrarium that looks like an alien planet, glowing mushrooms, macro lens, mysterious and cute",
	"Traditional Chinese ink painting style 3D render, a fox spirit holding a lantern walking on a bridge of stars, ethereal, magical, white background, minimalist",
	"A tiny whimsical bakery inside a hollowed-out orange, miniature chefs baking tiny pastries, warm glowing light inside, macro photography",
	"A miniature wooden boat sailing on a river of blue silk, surrounded by giant falling cherry blossom petals, dreamlike, soft focus",
	"Detailed macro shot of a tiny fox sleeping inside a glass tea cup filled with stars and nebulae, fantasy art, cozy",
}

var defaultSongs = []string{
	"高山流水", "梅花三弄", "平沙落雁", "渔樵问答", "广陵散",
	"阳关三叠", "醉渔唱晚", "胡笳十八拍", "潇湘水云", "汉宫秋月",
	"凤求凰", "酒狂", "忆故人", "流水", "高山",
	"关山月", "鸥鹭忘机", "秋风词", "良宵引", "玉楼春晓",
	"普庵咒", "神人畅", "石上流泉", "龙翔操", "梧叶舞秋风",
	"墨子悲丝", "长门怨", "鹤鸣九皋", "碧涧流泉", "归去来辞",
}
