package convert_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcore-schema/mmconfig-go/pkg/convert"
	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

const demoCfg = `Property,Core,Initialize,0

Device,Cam,DemoCamera,DCam
Device,Wheel,DemoCamera,DWheel

Property,Cam,MaximumExposureMs,10000

Property,Core,Initialize,1

Property,Cam,Exposure,10.0

Property,Core,Camera,Cam

Label,Wheel,0,DAPI
Label,Wheel,1,FITC

ConfigGroup,Channel,DAPI,Wheel,Label,DAPI
ConfigGroup,System,Startup,Cam,Binning,1

ConfigPixelSize,Res10x,Wheel,Label,DAPI
PixelSize_um,Res10x,1.0
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileLegacy(t *testing.T) {
	path := writeTemp(t, "demo.cfg", demoCfg)

	cfg, diags, err := convert.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, diags)

	require.Len(t, cfg.Devices, 2)
	assert.Equal(t, "Cam", cfg.Devices[0].Label)
	assert.NotNil(t, cfg.GetConfigurationGroup("Channel"))
	assert.Nil(t, cfg.GetConfigurationGroup(mmconfig.SystemGroup))
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "demo.toml", "whatever")

	_, _, err := convert.ReadFile(path)
	require.Error(t, err)

	var format *convert.UnsupportedFormatError
	require.ErrorAs(t, err, &format)
	assert.Equal(t, ".toml", format.Ext)
}

func TestWriteFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.xml")

	err := convert.WriteFile(path, mmconfig.New(), convert.Options{})
	require.Error(t, err)

	var format *convert.UnsupportedFormatError
	require.ErrorAs(t, err, &format)
}

func TestExtensionCaseInsensitive(t *testing.T) {
	path := writeTemp(t, "demo.CFG", demoCfg)

	cfg, _, err := convert.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Devices, 2)
}

func TestConvertFileChain(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "demo.cfg")
	require.NoError(t, os.WriteFile(cfgPath, []byte(demoCfg), 0o644))

	jsonPath := filepath.Join(dir, "demo.json")
	yamlPath := filepath.Join(dir, "demo.yaml")
	backPath := filepath.Join(dir, "back.cfg")

	_, err := convert.ConvertFile(cfgPath, jsonPath, convert.Options{Indent: 2})
	require.NoError(t, err)
	_, err = convert.ConvertFile(jsonPath, yamlPath, convert.Options{Indent: 2})
	require.NoError(t, err)
	_, err = convert.ConvertFile(yamlPath, backPath, convert.Options{})
	require.NoError(t, err)

	original, _, err := convert.ReadFile(cfgPath)
	require.NoError(t, err)
	converted, _, err := convert.ReadFile(backPath)
	require.NoError(t, err)
	assert.Equal(t, original, converted)
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := convert.ReadFile(filepath.Join(t.TempDir(), "missing.cfg"))
	require.Error(t, err)
}

func TestReadFileDiagnostics(t *testing.T) {
	path := writeTemp(t, "dup.cfg", "Device,Cam,DemoCamera,DCam\nDevice,Cam,Other,Other\n")

	cfg, diags, err := convert.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Len(t, cfg.Devices, 1)
}
