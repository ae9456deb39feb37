package shared

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestPatchFlagValues(t *testing.T) {
	// wire values shared with the runtime
	assert.Equal(t, int16(Text), int16(1))
	assert.Equal(t, int16(Class), int16(2))
	assert.Equal(t, int16(Style), int16(4))
	assert.Equal(t, int16(Props), int16(8))
	assert.Equal(t, int16(FullProps), int16(1<<4))
	assert.Equal(t, int16(StableFragment), int16(1<<6))
	assert.Equal(t, int16(KeyedFragment), int16(1<<7))
	assert.Equal(t, int16(UnkeyedFragment), int16(1<<8))
	assert.Equal(t, int16(DevRootFragment), int16(1<<11))
}

func TestPatchFlagNames(t *testing.T) {
	assert.Equal(t, Text.Names(), "TEXT")
	assert.Equal(t, (Text | Class).Names(), "TEXT, CLASS")
	assert.Equal(t, (StableFragment | DevRootFragment).Names(), "STABLE_FRAGMENT, DEV_ROOT_FRAGMENT")
	assert.Equal(t, (Text | Class).String(), "3")
	assert.Equal(t, PatchFlags(-2).Names(), "SPECIAL(-2)")
}

func TestToValidAssetID(t *testing.T) {
	assert.Equal(t, ToValidAssetID("Foo", "component"), "_component_Foo")
	assert.Equal(t, ToValidAssetID("my-widget", "component"), "_component_my_widget")
	assert.Equal(t, ToValidAssetID("focus", "directive"), "_directive_focus")
	// non-word characters become their decimal code points
	assert.Equal(t, ToValidAssetID("a.b", "component"), "_component_a46b")
}
