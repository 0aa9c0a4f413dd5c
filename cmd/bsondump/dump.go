package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/sbunce/mbson"
)

// maxDocSize bounds a single document read off of a stream of concatenated
// BSON documents, the on-disk .bson format this tool reads.
const maxDocSize = 16 * 1024 * 1024

// readDocument reads one length-prefixed BSON document from r.
func readDocument(r io.Reader) (*bson.Document, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err // io.EOF on clean end between documents
	}
	declared := int32(lenBuf[0]) | int32(lenBuf[1])<<8 | int32(lenBuf[2])<<16 | int32(lenBuf[3])<<24
	if declared < 5 || declared > maxDocSize {
		return nil, errors.Errorf("bsondump: declared document length %d out of range", declared)
	}
	buf := make([]byte, declared)
	copy(buf, lenBuf[:])
	if _, err := io.ReadFull(r, buf[4:]); err != nil {
		return nil, errors.Wrap(err, "bsondump: reading document body")
	}
	return bson.DocumentFromBytes(buf)
}

// Dump reads every document from in and writes one JSON value per document
// to out, each followed by a newline. With pretty set, each value is
// indented over several lines; otherwise it is a single line.
func Dump(in io.Reader, out io.Writer, pretty bool) error {
	for {
		doc, err := readDocument(in)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		value, err := documentToJSON(doc)
		if err != nil {
			return err
		}

		var line []byte
		if pretty {
			line, err = json.MarshalIndent(value, "", "  ")
		} else {
			line, err = json.Marshal(value)
		}
		if err != nil {
			return errors.Wrap(err, "bsondump: marshaling document to JSON")
		}
		if _, err := out.Write(line); err != nil {
			return err
		}
		if _, err := out.Write([]byte("\n")); err != nil {
			return err
		}
	}
}

// Debug reads every document from in and writes a recursive structural
// dump to out: one block per document giving its size, and for each
// element its key and kind, recursing into DOCUMENT and ARRAY elements.
// Element sizes are not printed.
func Debug(in io.Reader, out io.Writer) error {
	for {
		doc, err := readDocument(in)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := debugDocument(doc, 0, out); err != nil {
			return err
		}
	}
}

func debugDocument(doc *bson.Document, indentLevel int, out io.Writer) error {
	indent := strings.Repeat("\t", indentLevel)
	fmt.Fprintf(out, "%v--- new object ---\n", indent)
	fmt.Fprintf(out, "%v\tsize : %v\n", indent, doc.Len())

	it := bson.NewIterator(doc)
	for it.Next() {
		fmt.Fprintf(out, "%v\t\t%v\n", indent, it.CurrentKey())
		fmt.Fprintf(out, "%v\t\t\ttype: %v\n", indent, it.CurrentKind())

		switch it.CurrentKind() {
		case bson.KindDocument:
			child, err := it.ValueDocument()
			if err != nil {
				return err
			}
			if err := debugDocument(child, indentLevel+3, out); err != nil {
				return err
			}
		case bson.KindArray:
			child, err := it.ValueArray()
			if err != nil {
				return err
			}
			if err := debugDocument(child, indentLevel+3, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// documentToJSON converts doc into a plain Go value suitable for
// encoding/json, using the same $oid/$date/$regex extended-JSON
// conventions as the tool this is modeled on.
func documentToJSON(doc *bson.Document) (map[string]interface{}, error) {
	result := map[string]interface{}{}
	it := bson.NewIterator(doc)
	for it.Next() {
		v, err := elementToJSON(it)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", it.CurrentKey())
		}
		result[it.CurrentKey()] = v
	}
	return result, nil
}

func arrayToJSON(doc *bson.Document) ([]interface{}, error) {
	result := []interface{}{}
	it := bson.NewIterator(doc)
	for it.Next() {
		v, err := elementToJSON(it)
		if err != nil {
			return nil, errors.Wrapf(err, "index %q", it.CurrentKey())
		}
		result = append(result, v)
	}
	return result, nil
}

func elementToJSON(it *bson.Iterator) (interface{}, error) {
	switch it.CurrentKind() {
	case bson.KindDouble:
		return it.ValueDouble()
	case bson.KindString:
		return it.ValueString()
	case bson.KindDocument:
		child, err := it.ValueDocument()
		if err != nil {
			return nil, err
		}
		return documentToJSON(child)
	case bson.KindArray:
		child, err := it.ValueArray()
		if err != nil {
			return nil, err
		}
		return arrayToJSON(child)
	case bson.KindUndefined:
		return nil, nil
	case bson.KindObjectID:
		id, err := it.ValueObjectID()
		if err != nil {
			return nil, err
		}
		return map[string]string{"$oid": id.Hex()}, nil
	case bson.KindBoolean:
		return it.ValueBool()
	case bson.KindDateTime:
		ms, err := it.ValueDateTime()
		if err != nil {
			return nil, err
		}
		return map[string]int64{"$date": ms}, nil
	case bson.KindNull:
		return nil, nil
	case bson.KindRegex:
		pattern, options, err := it.ValueRegex()
		if err != nil {
			return nil, err
		}
		return map[string]string{"$regex": pattern, "$options": options}, nil
	case bson.KindInt32:
		return it.ValueInt32()
	case bson.KindInt64:
		return it.ValueInt64()
	default:
		return nil, errors.Errorf("bsondump: unsupported element kind %v", it.CurrentKind())
	}
}
