package contentstore

// ProductsQuery fetches all products with the category dereferenced
const ProductsQuery = `*[_type == "product"]{
  ...,
  category->{
    _id,
    title,
    slug
  }
}`

// ProductBySlugQuery fetches one product by slug
const ProductBySlugQuery = `*[_type == "product" && slug.current == $slug][0]{
  ...,
  category->{
    _id,
    title,
    slug
  }
}`

// CategoriesQuery fetches all categories with their product counts
const CategoriesQuery = `*[_type == "category"]{
  _id,
  title,
  description,
  slug,
  image,
  "productCount": count(
    *[_type == "product" && category._ref == ^._id]
  )
}`

// UserByIDQuery fetches the user record keyed by the auth provider's ID
const UserByIDQuery = `*[_type == "user" && id == $uid][0]`

// OrdersQuery fetches all orders, newest first
const OrdersQuery = `*[_type == "order"] | order(createdAt desc)`

// OrderByNumberQuery fetches one order by its order number
const OrderByNumberQuery = `*[_type == "order" && orderNumber == $orderNumber][0]`
