package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFiles(id string, files ...string) Sample {
	s := New(id)
	s.Files = files
	return s
}

func TestCollectionCloneIsIndependent(t *testing.T) {
	c := Collection{withFiles("s1", "a.txt")}
	clone := c.Clone()
	clone[0].Files[0] = "b.txt"
	assert.Equal(t, "a.txt", c[0].Files[0])
}

func TestCollectionValidateRemovesInvalidSamples(t *testing.T) {
	valid := withFiles("s1", "a.txt")
	invalid := New("") // empty id, nil files

	c := Collection{valid, invalid}
	removed := c.Validate()

	require.Len(t, c, 1)
	assert.Equal(t, "s1", c[0].ID)
	require.Len(t, removed, 1)
	assert.Equal(t, "", removed[0].ID)
}

func TestCollectionSplitEmptyLinkByYieldsSingletons(t *testing.T) {
	c := Collection{withFiles("s1", "a.txt"), withFiles("s2", "b.txt")}
	groups := c.Split("")
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 1)
	assert.Len(t, groups[1], 1)
}

func TestCollectionSplitGroupsByID(t *testing.T) {
	c := Collection{withFiles("s1", "a.txt"), withFiles("s1", "b.txt"), withFiles("s2", "c.txt")}
	groups := c.Split("id")
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 1)
}

func TestCollectionSplitGroupsByExtraField(t *testing.T) {
	a := withFiles("s1", "a.txt")
	require.NoError(t, a.Extra.Set([]string{"batch"}, "x"))
	b := withFiles("s2", "b.txt")
	require.NoError(t, b.Extra.Set([]string{"batch"}, "x"))
	c1 := withFiles("s3", "c.txt")
	require.NoError(t, c1.Extra.Set([]string{"batch"}, "y"))

	groups := Collection{a, b, c1}.Split("batch")
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 1)
}

func TestCollectionUniqueIDsPreservesFirstSeenOrder(t *testing.T) {
	c := Collection{withFiles("s2", "a.txt"), withFiles("s1", "b.txt"), withFiles("s2", "c.txt")}
	assert.Equal(t, []string{"s2", "s1"}, c.UniqueIDs())
}

func TestCollectionCompleteAndFailedPartitionByGroup(t *testing.T) {
	done1 := withFiles("s1", "a.txt")
	done1.Done = true
	done2 := withFiles("s1", "b.txt")
	done2.Done = true

	pending := withFiles("s2", "c.txt")
	pending.Done = false

	c := Collection{done1, done2, pending}

	complete := c.Complete()
	require.Len(t, complete, 2)
	for _, s := range complete {
		assert.Equal(t, "s1", s.ID)
	}

	failed := c.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "s2", failed[0].ID)
}

func TestCollectionCompleteRequiresWholeGroupDone(t *testing.T) {
	oneDone := withFiles("s1", "a.txt")
	oneDone.Done = true
	oneNotDone := withFiles("s1", "b.txt")
	oneNotDone.Done = false

	c := Collection{oneDone, oneNotDone}

	assert.Empty(t, c.Complete())
	assert.Len(t, c.Failed(), 2)
}
