package module

import (
	"github.com/hpcio/tracelog/errs"
	"github.com/hpcio/tracelog/format"
)

// registry is the static dispatch table, indexed by format.ModuleID.
var registry = [format.NumModules]Codec{
	format.ModulePOSIX:   posixCodec{},
	format.ModuleMPIIO:   mpiioCodec{},
	format.ModuleHDF5:    hdf5Codec{},
	format.ModulePNetCDF: pnetcdfCodec{},
}

// Lookup returns the Codec registered for id.
func Lookup(id format.ModuleID) (Codec, error) {
	if !id.Valid() {
		return nil, errs.New(errs.KindInvalidArgument, "module.Lookup", errs.ErrInvalidModuleID)
	}

	return registry[id], nil
}

// All returns every registered module id in ascending order, the order
// a container writer must touch them in.
func All() []format.ModuleID {
	ids := make([]format.ModuleID, format.NumModules)
	for i := range ids {
		ids[i] = format.ModuleID(i)
	}

	return ids
}
