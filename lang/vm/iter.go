package vm

import (
	"github.com/kaubo-lang/kaubo/lang/value"
)

// getIter implements OpGetIter: it materializes whatever's on top of the
// stack into an iterator object. Lists and JSON objects iterate
// natively; strings iterate as a list of single-character strings;
// coroutines iterate by repeated resume, one element per yield (or final
// return), until the coroutine goes dead.
func (v *VM) getIter(line int32) error {
	target := v.pop()
	if !target.IsHeap() {
		return v.runtimeErr(line, "%s is not iterable", target.TypeName())
	}
	switch target.TagOf() {
	case value.TagList:
		v.push(v.heap.NewIterator(&value.ObjIterator{Kind: value.IterList, List: v.heap.List(target)}))
		return nil
	case value.TagJSON:
		v.push(v.heap.NewIterator(&value.ObjIterator{Kind: value.IterJSON, JSON: v.heap.JSON(target)}))
		return nil
	case value.TagCoroutine:
		v.push(v.heap.NewIterator(&value.ObjIterator{Kind: value.IterCoroutine, Coro: v.heap.Coroutine(target)}))
		return nil
	case value.TagString:
		s := v.heap.String(target).S
		items := make([]value.Value, 0, len(s))
		for _, r := range s {
			items = append(items, v.heap.NewString(string(r)))
		}
		v.push(v.heap.NewIterator(&value.ObjIterator{Kind: value.IterList, List: &value.ObjList{Items: items}}))
		return nil
	default:
		return v.runtimeErr(line, "%s is not iterable", target.TypeName())
	}
}

// iterNext implements OpIterNext: it expects the iterator on top of the
// stack (left there by GetIter or the previous iteration), advances it,
// and pushes the next element on top if one exists. hasNext tells the
// caller whether to fall through into the loop body or jump past it.
func (v *VM) iterNext(line int32) (hasNext bool, err error) {
	it := v.heap.Iterator(v.peek(0))
	switch it.Kind {
	case value.IterList:
		if it.Index >= len(it.List.Items) {
			return false, nil
		}
		val := it.List.Items[it.Index]
		it.Index++
		v.push(val)
		return true, nil
	case value.IterJSON:
		if it.Index >= len(it.JSON.Keys) {
			return false, nil
		}
		key := it.JSON.Keys[it.Index]
		it.Index++
		v.push(v.heap.NewString(key))
		return true, nil
	case value.IterCoroutine:
		if it.Coro.Status == value.CoroutineDead {
			return false, nil
		}
		val, _, err := v.resumeCoroutine(it.Coro, value.Null())
		if err != nil {
			return false, err
		}
		v.push(val)
		return true, nil
	default:
		return false, v.runtimeErr(line, "invalid iterator state")
	}
}
