package captions

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

// Asset is an illustrative image with a description the LLM matches against.
type Asset struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

// AssetCatalog lists the images available to highlight pages.
type AssetCatalog struct {
	Assets []Asset `json:"assets"`
	// Dir prefixes bare file names; defaults to "assets".
	Dir string `json:"-"`
}

// LoadAssetCatalog reads an asset description file.
func LoadAssetCatalog(filePath string) (*AssetCatalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset catalog %s: %w", filePath, err)
	}

	var catalog AssetCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse asset catalog %s: %w", filePath, err)
	}
	return &catalog, nil
}

// Resolve maps an LLM answer to a catalog asset path.
// It accepts a bare file name or one already prefixed with the asset directory.
func (c *AssetCatalog) Resolve(answer string) (string, bool) {
	if c == nil {
		return "", false
	}
	base := path.Base(strings.TrimSpace(answer))
	for _, a := range c.Assets {
		if path.Base(a.Filename) == base {
			return c.pathFor(a.Filename), true
		}
	}
	return "", false
}

func (c *AssetCatalog) pathFor(filename string) string {
	dir := c.Dir
	if dir == "" {
		dir = "assets"
	}
	if strings.HasPrefix(filename, dir+"/") {
		return filename
	}
	return path.Join(dir, filename)
}
