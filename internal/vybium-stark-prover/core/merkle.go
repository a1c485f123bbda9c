package core

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// MerkleTree commits to a sequence of rows with a single 32-byte root digest.
type MerkleTree struct {
	root   []byte
	leaves [][]byte
	levels [][][]byte
}

// ProofNode is one step of a Merkle authentication path.
type ProofNode struct {
	Hash    []byte
	IsRight bool // true if the sibling is the right child
}

// NewMerkleTree builds a Merkle tree over the given rows. Each row is hashed
// into a leaf; odd nodes at any level are paired with themselves.
func NewMerkleTree(rows [][]byte) (*MerkleTree, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot create Merkle tree with empty data")
	}

	leaves := make([][]byte, len(rows))
	for i, row := range rows {
		leaves[i] = hashNode(row)
	}

	levels := [][][]byte{leaves}
	currentLevel := leaves

	for len(currentLevel) > 1 {
		nextLevel := make([][]byte, 0, (len(currentLevel)+1)/2)
		for i := 0; i < len(currentLevel); i += 2 {
			right := currentLevel[i]
			if i+1 < len(currentLevel) {
				right = currentLevel[i+1]
			}
			combined := append(append([]byte{}, currentLevel[i]...), right...)
			nextLevel = append(nextLevel, hashNode(combined))
		}
		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	return &MerkleTree{
		root:   currentLevel[0],
		leaves: leaves,
		levels: levels,
	}, nil
}

// Root returns the root digest.
func (mt *MerkleTree) Root() []byte {
	return append([]byte(nil), mt.root...)
}

// NumLeaves returns the number of committed rows.
func (mt *MerkleTree) NumLeaves() int {
	return len(mt.leaves)
}

// Proof generates the authentication path for the leaf at the given index.
func (mt *MerkleTree) Proof(index int) ([]ProofNode, error) {
	if index < 0 || index >= len(mt.leaves) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", index, len(mt.leaves))
	}

	var proof []ProofNode
	currentIndex := index

	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		siblingIndex := currentIndex - 1
		isRight := false
		if currentIndex%2 == 0 {
			siblingIndex = currentIndex + 1
			isRight = true
		}
		if siblingIndex >= len(currentLevel) {
			// Odd node paired with itself.
			siblingIndex = currentIndex
		}

		proof = append(proof, ProofNode{
			Hash:    currentLevel[siblingIndex],
			IsRight: isRight,
		})
		currentIndex /= 2
	}

	return proof, nil
}

// VerifyMerkleProof checks an authentication path against a root digest.
func VerifyMerkleProof(root []byte, row []byte, proof []ProofNode) bool {
	hash := hashNode(row)
	for _, node := range proof {
		var combined []byte
		if node.IsRight {
			combined = append(append([]byte{}, hash...), node.Hash...)
		} else {
			combined = append(append([]byte{}, node.Hash...), hash...)
		}
		hash = hashNode(combined)
	}
	return bytes.Equal(hash, root)
}

func hashNode(data []byte) []byte {
	h := sha3.Sum256(data)
	return h[:]
}
