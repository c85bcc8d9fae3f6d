package signature

import (
	"fmt"
	"sort"

	"notewatch/memory"
)

// Scan tuning. Changing the chunk size must never change which addresses a
// scan returns, only how many reads it takes to get there (see
// ScanCodeForPattern's tail overlap handling). The ceiling bounds how far a
// scan walks.
const (
	CodeScanChunkSize = 4 * 1024 * 1024   // 4 MiB
	CodeScanLimit     = 256 * 1024 * 1024 // 256 MiB
)

// MinValidDataAddress rejects resolved targets that land below any real
// module's image base - almost always a sign the displacement math chased
// a bad disassembly alignment into the null page or a small sentinel value.
const MinValidDataAddress = 0x10000

// ScanCodeForPattern walks a process's code region from its base address in
// fixed-size chunks, up to CodeScanLimit or the module size (whichever is
// smaller), looking for every match of pattern, returning absolute
// addresses in ascending, deduplicated order. It carries len(pattern)-1
// bytes of tail from each chunk into the next so a match straddling a
// chunk boundary is never missed; the result is identical no matter how the
// scan is chunked.
func ScanCodeForPattern(r memory.ReadMemory, pattern []*byte) ([]uint64, error) {
	base := r.BaseAddress()
	var results []uint64
	var offset uint64
	var scanned int
	var tail []byte

	limit := CodeScanLimit
	if size := r.ModuleSize(); size > 0 && size < uint64(limit) {
		limit = int(size)
	}

	for scanned < limit {
		remaining := limit - scanned
		readSize := remaining
		if readSize > CodeScanChunkSize {
			readSize = CodeScanChunkSize
		}
		addr := base + offset

		chunk, err := r.ReadBytes(addr, readSize)
		if err != nil {
			if scanned == 0 {
				return nil, fmt.Errorf("failed to read code section: %w", err)
			}
			break
		}

		data := make([]byte, 0, len(tail)+len(chunk))
		data = append(data, tail...)
		data = append(data, chunk...)

		var dataBase uint64
		if uint64(len(tail)) <= addr {
			dataBase = addr - uint64(len(tail))
		}

		results = append(results, FindMatchesWithWildcards(data, dataBase, pattern)...)

		if len(pattern) > 1 {
			keep := len(pattern) - 1
			if len(data) >= keep {
				tail = append([]byte(nil), data[len(data)-keep:]...)
			} else {
				tail = data
			}
		} else {
			tail = nil
		}

		scanned += readSize
		offset += uint64(readSize)
	}

	return dedupSorted(results), nil
}

// FindMatchesWithWildcards does a naive O(n*m) scan of buffer for pattern,
// treating nil entries as wildcards, and returns absolute match addresses
// (baseAddr + offset).
func FindMatchesWithWildcards(buffer []byte, baseAddr uint64, pattern []*byte) []uint64 {
	if len(pattern) == 0 || len(buffer) < len(pattern) {
		return nil
	}

	var results []uint64
	last := len(buffer) - len(pattern)

outer:
	for i := 0; i <= last; i++ {
		for j, b := range pattern {
			if b != nil && buffer[i+j] != *b {
				continue outer
			}
		}
		results = append(results, baseAddr+uint64(i))
	}

	return results
}

// ResolveSignatureTargets scans for a signature's pattern and resolves
// every match into an absolute data address via RIP-relative addressing:
// target = (match + instr_offset + instr_len) + disp, with an optional
// pointer dereference and signed addend applied afterward. Targets below
// MinValidDataAddress are discarded.
func ResolveSignatureTargets(r memory.ReadMemory, sig CodeSignature) ([]uint64, error) {
	pattern, err := sig.PatternBytes()
	if err != nil {
		return nil, err
	}

	matches, err := ScanCodeForPattern(r, pattern)
	if err != nil {
		return nil, err
	}

	var targets []uint64
	for _, matchAddr := range matches {
		instrAddr := matchAddr + uint64(sig.InstrOffset)
		dispAddr := instrAddr + uint64(sig.DispOffset)

		dispBytes, err := r.ReadBytes(dispAddr, 4)
		if err != nil {
			continue
		}
		disp := int32(uint32(dispBytes[0]) | uint32(dispBytes[1])<<8 | uint32(dispBytes[2])<<16 | uint32(dispBytes[3])<<24)

		nextIP := instrAddr + uint64(sig.InstrLen)
		target := addSigned(nextIP, int64(disp))

		if sig.Deref {
			ptr, err := memory.ReadU64(r, target)
			if err != nil {
				continue
			}
			target = ptr
		}

		if sig.Addend != 0 {
			target = addSigned(target, sig.Addend)
		}

		if target < MinValidDataAddress {
			continue
		}
		if target != 0 {
			targets = append(targets, target)
		}
	}

	return dedupSorted(targets), nil
}

func addSigned(base uint64, delta int64) uint64 {
	return uint64(int64(base) + delta)
}

func dedupSorted(vals []uint64) []uint64 {
	if len(vals) == 0 {
		return vals
	}
	sorted := append([]uint64(nil), vals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
