package alloc

import "github.com/edward-official/week07-jungle/internal/word"

// Intrusive free-list links. A free block stores two 8-byte offsets at the
// front of its payload: pred at payload[0:8], succ at payload[8:16]. Link
// value 0 means "none" — offset 0 is the region's padding word, never a
// payload. Allocated blocks never carry links; their payload is caller-owned.

const succLink = word.DSize // succ field offset within the payload

func predOf(data []byte, bp int) int {
	return int(word.U64(data, bp))
}

func succOf(data []byte, bp int) int {
	return int(word.U64(data, bp+succLink))
}

func setPred(data []byte, bp, pred int) {
	word.PutU64(data, bp, uint64(pred))
}

func setSucc(data []byte, bp, succ int) {
	word.PutU64(data, bp+succLink, uint64(succ))
}

func clearLinks(data []byte, bp int) {
	setPred(data, bp, 0)
	setSucc(data, bp, 0)
}

// insertFree pushes the free block at bp onto the head of its size class
// bucket (LIFO). size must be the block's current size. O(1).
func (a *Allocator) insertFree(bp, size int) {
	data := a.mem.Bytes()
	sc := a.table.classify(size)
	head := a.heads[sc]

	setPred(data, bp, 0)
	setSucc(data, bp, head)
	if head != 0 {
		setPred(data, head, bp)
	}
	a.heads[sc] = bp
}

// removeFree unlinks the free block at bp from its bucket through the block's
// own pred/succ fields. size must be the block's current size — it selects
// the bucket whose head may need repair. Calling this on a block that is not
// indexed is a caller bug with undefined results. O(1).
func (a *Allocator) removeFree(bp, size int) {
	data := a.mem.Bytes()
	pred := predOf(data, bp)
	succ := succOf(data, bp)

	if pred != 0 {
		setSucc(data, pred, succ)
	} else {
		a.heads[a.table.classify(size)] = succ
	}
	if succ != 0 {
		setPred(data, succ, pred)
	}
}
