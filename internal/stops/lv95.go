package stops

// Swiss LV95 <-> WGS84 conversion using the swisstopo approximation
// formulas. Accuracy is around a meter, well inside the 5-point rubric's
// coarsest bucket width.

// LV95ToWGS84 converts planar LV95 coordinates (E, N) to WGS84 degrees.
func LV95ToWGS84(e, n float64) (lat, lon float64) {
	y := (e - 2600000) / 1000000
	x := (n - 1200000) / 1000000

	lonPrime := 2.6779094 +
		4.728982*y +
		0.791484*y*x +
		0.1306*y*x*x -
		0.0436*y*y*y
	latPrime := 16.9023892 +
		3.238272*x -
		0.270978*y*y -
		0.002528*x*x -
		0.0447*y*y*x -
		0.0140*x*x*x

	return latPrime * 100 / 36, lonPrime * 100 / 36
}

// WGS84ToLV95 converts WGS84 degrees to planar LV95 coordinates (E, N).
// Projecting the query point into LV95 makes Euclidean distance valid at
// city scale against the stop registry's native planar coordinates.
func WGS84ToLV95(lat, lon float64) (e, n float64) {
	phi := (lat*3600 - 169028.66) / 10000
	lambda := (lon*3600 - 26782.5) / 10000

	e = 2600072.37 +
		211455.93*lambda -
		10938.51*lambda*phi -
		0.36*lambda*phi*phi -
		44.54*lambda*lambda*lambda
	n = 1200147.07 +
		308807.95*phi +
		3745.25*lambda*lambda +
		76.63*phi*phi -
		194.56*lambda*lambda*phi +
		119.79*phi*phi*phi

	return e, n
}
