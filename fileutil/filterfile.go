package fileutil

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/CSUNetSec/bgpupdate/filter"
)

// FilterFile is the JSON-decoded shape of a filter configuration
// file: lists of CIDR prefixes and AS numbers to match at various
// AS_PATH positions.
type FilterFile struct {
	MonitoredPrefixes []string
	SourceASes        []uint32
	DestASes          []uint32
	MidPathASes       []uint32
	AnywhereASes      []uint32
}

func (f FilterFile) getFilters() ([]filter.Filter, error) {
	var ret []filter.Filter
	if len(f.MonitoredPrefixes) > 0 {
		fil, err := filter.NewPrefixFilterFromSlice(f.MonitoredPrefixes, filter.AnyPrefix)
		if err != nil {
			return nil, errors.Wrap(err, "can not create prefix filter from conf")
		}
		ret = append(ret, fil)
	}
	if len(f.SourceASes) > 0 {
		fil, err := filter.NewASFilterFromSlice(f.SourceASes, filter.AS_SOURCE)
		if err != nil {
			return nil, errors.Wrap(err, "can not create source AS filter from conf")
		}
		ret = append(ret, fil)
	}
	if len(f.DestASes) > 0 {
		fil, err := filter.NewASFilterFromSlice(f.DestASes, filter.AS_DESTINATION)
		if err != nil {
			return nil, errors.Wrap(err, "can not create destination AS filter from conf")
		}
		ret = append(ret, fil)
	}
	if len(f.MidPathASes) > 0 {
		fil, err := filter.NewASFilterFromSlice(f.MidPathASes, filter.AS_MIDPATH)
		if err != nil {
			return nil, errors.Wrap(err, "can not create midpath AS filter from conf")
		}
		ret = append(ret, fil)
	}
	if len(f.AnywhereASes) > 0 {
		fil, err := filter.NewASFilterFromSlice(f.AnywhereASes, filter.AS_ANYWHERE)
		if err != nil {
			return nil, errors.Wrap(err, "can not create anywhere AS filter from conf")
		}
		ret = append(ret, fil)
	}
	return ret, nil
}

// NewFiltersFromFile reads and parses a JSON FilterFile from path a.
func NewFiltersFromFile(a string) ([]filter.Filter, error) {
	var ff FilterFile
	contents, err := ioutil.ReadFile(a)
	if err != nil {
		return nil, errors.Wrap(err, "read filter file")
	}
	if err := json.Unmarshal(contents, &ff); err != nil {
		return nil, errors.Wrap(err, "json unmarshal")
	}
	return ff.getFilters()
}
