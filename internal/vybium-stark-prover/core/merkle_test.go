package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func merkleTestRows(n int) [][]byte {
	rows := make([][]byte, n)
	for i := range rows {
		rows[i] = []byte(fmt.Sprintf("row-%d", i))
	}
	return rows
}

func TestMerkleTreeRejectsEmpty(t *testing.T) {
	_, err := NewMerkleTree(nil)
	assert.Error(t, err)
}

func TestMerkleTreeSingleLeaf(t *testing.T) {
	tree, err := NewMerkleTree(merkleTestRows(1))
	require.NoError(t, err)
	assert.Equal(t, 1, tree.NumLeaves())
	assert.NotEmpty(t, tree.Root())

	proof, err := tree.Proof(0)
	require.NoError(t, err)
	assert.True(t, VerifyMerkleProof(tree.Root(), []byte("row-0"), proof))
}

func TestMerkleTreeProofs(t *testing.T) {
	for _, n := range []int{2, 3, 8, 13, 64} {
		rows := merkleTestRows(n)
		tree, err := NewMerkleTree(rows)
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			proof, err := tree.Proof(i)
			require.NoError(t, err)
			assert.True(t, VerifyMerkleProof(tree.Root(), rows[i], proof), "n=%d leaf %d", n, i)
		}
	}
}

func TestMerkleTreeRejectsWrongRow(t *testing.T) {
	rows := merkleTestRows(8)
	tree, err := NewMerkleTree(rows)
	require.NoError(t, err)

	proof, err := tree.Proof(3)
	require.NoError(t, err)
	assert.False(t, VerifyMerkleProof(tree.Root(), []byte("tampered"), proof))
	assert.False(t, VerifyMerkleProof(tree.Root(), rows[4], proof))
}

func TestMerkleTreeProofIndexOutOfRange(t *testing.T) {
	tree, err := NewMerkleTree(merkleTestRows(4))
	require.NoError(t, err)

	_, err = tree.Proof(-1)
	assert.Error(t, err)
	_, err = tree.Proof(4)
	assert.Error(t, err)
}

func TestMerkleTreeRootDependsOnOrder(t *testing.T) {
	rows := merkleTestRows(4)
	tree1, err := NewMerkleTree(rows)
	require.NoError(t, err)

	swapped := [][]byte{rows[1], rows[0], rows[2], rows[3]}
	tree2, err := NewMerkleTree(swapped)
	require.NoError(t, err)

	assert.NotEqual(t, tree1.Root(), tree2.Root())
}
