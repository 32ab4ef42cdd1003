package store

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/viant/sqlite-vec0/schema"
	"github.com/viant/sqlite-vec0/vector"
)

// Chunk is a fixed-capacity block of rows belonging to one partition.
// Slots fill in order and are never reused; a deleted slot is cleared in the
// validity bitmap.
type Chunk struct {
	id        int
	partition *partition
	capacity  int
	rowids    []int64
	valid     *roaring.Bitmap
	// vectors and values are indexed by column position; entries for
	// other column kinds are nil.
	vectors []*vectorData
	values  [][]any
}

// vectorData holds one vector column of a chunk as a flat typed array.
type vectorData struct {
	typ    vector.Type
	dims   int
	stride int
	f32    []float32
	i8     []int8
	bits   []byte
}

func newVectorData(col schema.Column, capacity int) *vectorData {
	ret := &vectorData{typ: col.Vector, dims: col.Dimension}
	switch col.Vector {
	case vector.Int8:
		ret.stride = col.Dimension
		ret.i8 = make([]int8, capacity*ret.stride)
	case vector.Bit:
		ret.stride = vector.Bit.ByteSize(col.Dimension)
		ret.bits = make([]byte, capacity*ret.stride)
	default:
		ret.stride = col.Dimension
		ret.f32 = make([]float32, capacity*ret.stride)
	}
	return ret
}

func (d *vectorData) set(slot int, v vector.Vector) {
	offset := slot * d.stride
	switch d.typ {
	case vector.Int8:
		copy(d.i8[offset:offset+d.stride], v.Int8)
	case vector.Bit:
		copy(d.bits[offset:offset+d.stride], v.Bits)
	default:
		copy(d.f32[offset:offset+d.stride], v.Float32)
	}
}

func (d *vectorData) at(slot int) vector.Vector {
	offset := slot * d.stride
	end := offset + d.stride
	switch d.typ {
	case vector.Int8:
		return vector.NewInt8(d.i8[offset:end:end])
	case vector.Bit:
		return vector.NewBit(d.bits[offset:end:end], d.dims)
	default:
		return vector.NewFloat32(d.f32[offset:end:end])
	}
}

func newChunk(id int, table *schema.Table, p *partition, capacity int) *Chunk {
	ret := &Chunk{
		id:        id,
		partition: p,
		capacity:  capacity,
		rowids:    make([]int64, 0, capacity),
		valid:     roaring.New(),
		vectors:   make([]*vectorData, table.Len()),
		values:    make([][]any, table.Len()),
	}
	for i, col := range table.Columns() {
		switch {
		case col.Kind == schema.VectorKind:
			ret.vectors[i] = newVectorData(col, capacity)
		case col.Filterable():
			ret.values[i] = make([]any, capacity)
		}
	}
	return ret
}

// ID returns the chunk's position in creation order.
func (c *Chunk) ID() int { return c.id }

// Capacity returns the maximum number of slots.
func (c *Chunk) Capacity() int { return c.capacity }

// Filled returns the number of slots used so far, deleted ones included.
func (c *Chunk) Filled() int { return len(c.rowids) }

// Full reports whether every slot has been used.
func (c *Chunk) Full() bool { return len(c.rowids) >= c.capacity }

// Live returns the number of valid rows.
func (c *Chunk) Live() int { return int(c.valid.GetCardinality()) }

// Valid reports whether slot holds a live row.
func (c *Chunk) Valid(slot int) bool { return c.valid.Contains(uint32(slot)) }

// Rowid returns the rowid stored in slot.
func (c *Chunk) Rowid(slot int) int64 { return c.rowids[slot] }

// Vector returns a read-only view of a vector column at slot.
func (c *Chunk) Vector(col, slot int) vector.Vector { return c.vectors[col].at(slot) }

// Value returns a primary key, partition key or metadata value at slot.
func (c *Chunk) Value(col, slot int) any { return c.values[col][slot] }

// PartitionValues returns the partition key values shared by all rows.
func (c *Chunk) PartitionValues() []any { return c.partition.values }

// ForEach calls fn for each valid slot in order until fn returns false.
func (c *Chunk) ForEach(fn func(slot int, rowid int64) bool) {
	it := c.valid.Iterator()
	for it.HasNext() {
		slot := int(it.Next())
		if !fn(slot, c.rowids[slot]) {
			return
		}
	}
}

func (c *Chunk) append(rowid int64, row []any) int {
	slot := len(c.rowids)
	c.rowids = append(c.rowids, rowid)
	c.write(slot, rowid, row)
	return slot
}

func (c *Chunk) write(slot int, rowid int64, row []any) {
	c.rowids[slot] = rowid
	for i, value := range row {
		if c.vectors[i] != nil {
			c.vectors[i].set(slot, value.(vector.Vector))
		} else if c.values[i] != nil {
			c.values[i][slot] = value
		}
	}
	c.valid.Add(uint32(slot))
}

func (c *Chunk) clear(slot int) {
	c.valid.Remove(uint32(slot))
	for _, values := range c.values {
		if values != nil {
			values[slot] = nil
		}
	}
}
